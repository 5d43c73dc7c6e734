package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/testfixtures"
)

type fakeCredentialVerifier struct {
	identity application.Identity
	err      error
}

func (f fakeCredentialVerifier) VerifyCredential(ctx context.Context, credential string) (application.Identity, error) {
	return f.identity, f.err
}

func TestRequireIdentity(t *testing.T) {
	t.Run("rejects requests without a credential", func(t *testing.T) {
		handler := RequireIdentity(fakeCredentialVerifier{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler must not run without a credential")
		}))

		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("rejects invalid credentials", func(t *testing.T) {
		verifier := fakeCredentialVerifier{err: application.ErrInvalidCredentials}
		handler := RequireIdentity(verifier, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler must not run with an invalid credential")
		}))

		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		req.Header.Set("Authorization", "Bearer expired-token")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("verifier failures map to 500", func(t *testing.T) {
		verifier := fakeCredentialVerifier{err: errors.New("store offline")}
		handler := RequireIdentity(verifier, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler must not run when verification fails")
		}))

		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", recorder.Code)
		}
	})

	t.Run("attaches the identity to the request context", func(t *testing.T) {
		identity := testfixtures.NewIdentityFixture(
			testfixtures.WithIdentityRole(application.RoleAdmin),
			testfixtures.WithIdentityCredential("valid-token"),
		)
		verifier := fakeCredentialVerifier{identity: identity}

		var captured application.Identity
		handler := RequireIdentity(verifier, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _ = IdentityFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if captured.UID != identity.UID || captured.Role != identity.Role {
			t.Fatalf("expected identity in context, got %+v", captured)
		}
	})

	t.Run("accepts the credential from the session cookie", func(t *testing.T) {
		verifier := fakeCredentialVerifier{identity: application.Identity{UID: "uid-1"}}
		handler := RequireIdentity(verifier, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "cookie-token"})
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("throttles a client that exhausts its burst", func(t *testing.T) {
		handler := RateLimit(1, 2, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		statuses := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = "10.0.0.1:50000"
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, req)
			statuses = append(statuses, recorder.Code)
		}

		if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
			t.Fatalf("burst requests must pass, got %v", statuses)
		}
		if statuses[2] != http.StatusTooManyRequests {
			t.Fatalf("expected 429 after burst, got %v", statuses)
		}
	})

	t.Run("limits clients independently", func(t *testing.T) {
		handler := RateLimit(1, 1, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		first := httptest.NewRequest(http.MethodPost, "/login", nil)
		first.RemoteAddr = "10.0.0.1:50000"
		firstRecorder := httptest.NewRecorder()
		handler.ServeHTTP(firstRecorder, first)

		second := httptest.NewRequest(http.MethodPost, "/login", nil)
		second.RemoteAddr = "10.0.0.2:50000"
		secondRecorder := httptest.NewRecorder()
		handler.ServeHTTP(secondRecorder, second)

		if firstRecorder.Code != http.StatusOK || secondRecorder.Code != http.StatusOK {
			t.Fatalf("independent clients must not share a bucket, got %d and %d", firstRecorder.Code, secondRecorder.Code)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	t.Run("attaches a request-scoped logger", func(t *testing.T) {
		var sawLogger bool
		handler := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawLogger = LoggerFromContext(r.Context()) != nil
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if !sawLogger {
			t.Fatalf("expected logger in request context")
		}
	})
}
