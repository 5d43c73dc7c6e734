package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/example/room-booking/internal/application"
)

// CredentialVerifier validates a presented bearer credential and rebuilds the
// identity it was minted for.
type CredentialVerifier interface {
	VerifyCredential(ctx context.Context, credential string) (application.Identity, error)
}

// RequireIdentity authenticates each request via the bearer credential in the
// Authorization header or session cookie and attaches the resulting identity
// to the request context.
func RequireIdentity(verifier CredentialVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := extractCredentialFromRequest(r)
			if credential == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
				return
			}

			identity, err := verifier.VerifyCredential(r.Context(), credential)
			if err != nil {
				if errors.Is(err, application.ErrInvalidCredentials) {
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
						ErrorCode: "AUTH_INVALID_TOKEN",
						Message:   "The session is no longer valid. Please log in again.",
					})
					return
				}
				responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{Message: "An error occurred while verifying the session."})
				return
			}

			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a request-scoped logger carrying a sequential request
// id and emits start/completion entries.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}

// RateLimit throttles requests per client address with a token bucket. It is
// applied to the credential-bearing auth endpoints so password guessing stays
// expensive.
func RateLimit(limit float64, burst int, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)
	limiters := &clientLimiters{
		limit:   rate.Limit(limit),
		burst:   burst,
		clients: make(map[string]*rate.Limiter),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.allow(clientAddr(r)) {
				responder.writeJSON(r.Context(), w, http.StatusTooManyRequests, errorResponse{
					ErrorCode: "RATE_LIMITED",
					Message:   statusMessage(http.StatusTooManyRequests),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type clientLimiters struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*rate.Limiter
}

func (l *clientLimiters) allow(addr string) bool {
	l.mu.Lock()
	limiter, ok := l.clients[addr]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.clients[addr] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

func clientAddr(r *http.Request) string {
	if r == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
