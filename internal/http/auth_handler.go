package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/room-booking/internal/application"
)

type sessionService interface {
	Register(ctx context.Context, params application.RegisterParams) (application.Identity, error)
	Login(ctx context.Context, email, password string) (application.Identity, error)
	Logout(ctx context.Context) error
	Current() application.SessionSnapshot
}

type AuthHandler struct {
	service   sessionService
	responder responder
	logger    *slog.Logger
}

func NewAuthHandler(service sessionService, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Register", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode register request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	logger := h.log(r.Context(), "Register", "email", email)

	identity, err := h.service.Register(r.Context(), application.RegisterParams{
		Email:       email,
		Password:    req.Password,
		DisplayName: strings.TrimSpace(req.Name),
		Role:        application.NormalizeRole(req.Role),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	setCredentialCookie(w, identity.Credential)
	logger.With("uid", identity.UID).InfoContext(r.Context(), "account registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, identityResponse{Identity: toIdentityDTO(identity)})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	logger := h.log(r.Context(), "Login", "email", email)

	identity, err := h.service.Login(r.Context(), email, req.Password)
	if err != nil {
		logger.ErrorContext(r.Context(), "login rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	setCredentialCookie(w, identity.Credential)
	logger.With("uid", identity.UID).InfoContext(r.Context(), "user logged in")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, identityResponse{Identity: toIdentityDTO(identity)})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "Logout")
	if err := h.service.Logout(r.Context()); err != nil {
		logger.ErrorContext(r.Context(), "logout failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	clearCredentialCookie(w)
	logger.InfoContext(r.Context(), "logout requested")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Session reports the current session snapshot. It is an open endpoint:
// clients poll it during the restoring phase before any credential exists.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	snapshot := h.service.Current()
	resp := sessionResponse{Phase: string(snapshot.Phase)}
	if snapshot.Identity != nil {
		dto := toIdentityDTO(*snapshot.Identity)
		// The credential is never replayed back out through the snapshot.
		dto.Credential = ""
		resp.Identity = &dto
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	Identity identityDTO `json:"identity"`
}

type sessionResponse struct {
	Phase    string       `json:"phase"`
	Identity *identityDTO `json:"identity,omitempty"`
}

type identityDTO struct {
	UID        string `json:"uid"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Credential string `json:"credential,omitempty"`
}

func toIdentityDTO(identity application.Identity) identityDTO {
	return identityDTO{
		UID:        identity.UID,
		Email:      identity.Email,
		Name:       identity.DisplayName,
		Role:       string(identity.Role),
		Credential: identity.Credential,
	}
}

func setCredentialCookie(w http.ResponseWriter, credential string) {
	if credential == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    credential,
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
	})
}

func clearCredentialCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
	})
}

func extractCredentialFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		const prefix = "Bearer "
		if strings.HasPrefix(header, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(header, prefix))
		}
	}
	if cookie, err := r.Cookie("session_token"); err == nil {
		return cookie.Value
	}
	return ""
}
