package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/example/room-booking/internal/persistence"
)

// IdentityProvider is the external service owning authentication
// credentials and session tokens.
type IdentityProvider interface {
	Register(ctx context.Context, params RegisterParams) (Identity, error)
	Authenticate(ctx context.Context, email, password string) (Identity, error)
	Terminate(ctx context.Context) error
	// Subscribe registers a callback invoked on every session change. A nil
	// identity signals that no user is authenticated. The returned function
	// cancels the subscription.
	Subscribe(fn func(identity *Identity)) (unsubscribe func())
}

// ProfileStore is the external persistent store for user profile
// documents, keyed by the identity's unique id.
type ProfileStore interface {
	WriteProfile(ctx context.Context, uid string, record ProfileRecord) error
	ReadProfile(ctx context.Context, uid string) (ProfileRecord, error)
}

// DurableSlot is the client-local persistent key-value slot that survives
// restarts. Only one key is used, holding the serialized current identity.
type DurableSlot interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// identitySlotKey is the single durable slot entry holding the current
// identity snapshot.
const identitySlotKey = "user"

// SessionService owns the process-wide session state. The lifecycle is an
// explicit two-phase machine: Restore seeds state synchronously from the
// durable slot, then provider change notifications confirm or replace it.
// The window between restore and the first notification is the Restoring
// phase; stale slot contents during that window are accepted by contract.
type SessionService struct {
	provider IdentityProvider
	profiles ProfileStore
	slot     DurableSlot
	logger   *slog.Logger

	mu          sync.RWMutex
	phase       SessionPhase
	identity    *Identity
	unsubscribe func()
}

// NewSessionService constructs a session service with the provided dependencies.
func NewSessionService(provider IdentityProvider, profiles ProfileStore, slot DurableSlot) *SessionService {
	return NewSessionServiceWithLogger(provider, profiles, slot, nil)
}

// NewSessionServiceWithLogger constructs a session service with a specified logger.
func NewSessionServiceWithLogger(provider IdentityProvider, profiles ProfileStore, slot DurableSlot, logger *slog.Logger) *SessionService {
	return &SessionService{
		provider: provider,
		profiles: profiles,
		slot:     slot,
		logger:   defaultLogger(logger),
		phase:    SessionRestoring,
	}
}

func (s *SessionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SessionService", operation, attrs...)
}

// Restore seeds session state from the durable slot. A missing or
// unreadable snapshot leaves the service in Restoring with no identity;
// restore failures are tolerated, never fatal.
func (s *SessionService) Restore(ctx context.Context) {
	if s == nil || s.slot == nil {
		return
	}

	logger := s.loggerWith(ctx, "Restore")

	raw, err := s.slot.Get(ctx, identitySlotKey)
	if err != nil {
		if !errors.Is(err, persistence.ErrNotFound) && !errors.Is(err, ErrNotFound) {
			logger.ErrorContext(ctx, "failed to read identity slot", "error", err)
		}
		return
	}

	var identity Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		logger.ErrorContext(ctx, "discarding corrupt identity snapshot", "error", err)
		return
	}

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()

	logger.With("email", identity.Email).InfoContext(ctx, "session restored from slot")
}

// Start subscribes to the identity provider's change notifications. The
// first notification moves the session from Restoring to Confirmed.
func (s *SessionService) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("SessionService is nil")
	}
	if s.provider == nil {
		return fmt.Errorf("identity provider not configured")
	}

	unsubscribe := s.provider.Subscribe(func(identity *Identity) {
		s.applyNotification(ctx, identity)
	})

	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
	return nil
}

// Stop cancels the provider subscription.
func (s *SessionService) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// applyNotification is the single writer for confirmed session state. The
// provider notification stream is authoritative: an identity confirms and
// persists it, nil confirms signed-out state and clears the slot, even
// when the slot held an identity at startup.
func (s *SessionService) applyNotification(ctx context.Context, identity *Identity) {
	logger := s.loggerWith(ctx, "applyNotification")

	s.mu.Lock()
	s.phase = SessionConfirmed
	if identity != nil {
		copied := *identity
		s.identity = &copied
	} else {
		s.identity = nil
	}
	s.mu.Unlock()

	if identity == nil {
		s.clearSlot(ctx, logger)
		logger.InfoContext(ctx, "session confirmed unauthenticated")
		return
	}

	s.persistSlot(ctx, logger, *identity)
	logger.With("email", identity.Email).InfoContext(ctx, "session confirmed")
}

// Current returns a copy of the session state.
func (s *SessionService) Current() SessionSnapshot {
	if s == nil {
		return SessionSnapshot{Phase: SessionRestoring}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := SessionSnapshot{Phase: s.phase}
	if s.identity != nil {
		copied := *s.identity
		snapshot.Identity = &copied
	}
	return snapshot
}

// Register creates a new account with the identity provider, writes the
// profile record, and confirms the returned identity. On failure the prior
// session state is retained and a ProviderError carries the reason.
func (s *SessionService) Register(ctx context.Context, params RegisterParams) (identity Identity, err error) {
	if s == nil {
		err = fmt.Errorf("SessionService is nil")
		return
	}
	if s.provider == nil {
		err = fmt.Errorf("identity provider not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	logger := s.loggerWith(ctx, "Register", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "registration failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("uid", identity.UID).InfoContext(ctx, "registration succeeded")
	}()

	vErr := validateRegisterParams(params)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	params.Email = email
	params.Role = NormalizeRole(string(params.Role))

	identity, err = s.provider.Register(ctx, params)
	if err != nil {
		err = providerFailure(err)
		identity = Identity{}
		return
	}

	if s.profiles != nil {
		if writeErr := s.profiles.WriteProfile(ctx, identity.UID, ProfileRecord{
			UID:         identity.UID,
			Email:       identity.Email,
			DisplayName: identity.DisplayName,
			Role:        identity.Role,
		}); writeErr != nil {
			logger.ErrorContext(ctx, "failed to write profile record", "error", writeErr)
		}
	}

	s.confirm(ctx, identity)
	return
}

// Login authenticates against the identity provider and rebuilds the
// identity from the stored profile record plus the freshly issued
// credential. A missing profile is a provider failure, not a fallback.
func (s *SessionService) Login(ctx context.Context, email, password string) (identity Identity, err error) {
	if s == nil {
		err = fmt.Errorf("SessionService is nil")
		return
	}
	if s.provider == nil {
		err = fmt.Errorf("identity provider not configured")
		return
	}

	normalized := strings.TrimSpace(strings.ToLower(email))
	logger := s.loggerWith(ctx, "Login", "email", normalized)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("uid", identity.UID).InfoContext(ctx, "login succeeded")
	}()

	authenticated, authErr := s.provider.Authenticate(ctx, normalized, password)
	if authErr != nil {
		err = providerFailure(authErr)
		return
	}

	identity = authenticated
	if s.profiles != nil {
		record, readErr := s.profiles.ReadProfile(ctx, authenticated.UID)
		if readErr != nil {
			if errors.Is(readErr, persistence.ErrNotFound) || errors.Is(readErr, ErrNotFound) {
				err = &ProviderError{Reason: "user data not found", Err: ErrNotFound}
				identity = Identity{}
				return
			}
			err = providerFailure(readErr)
			identity = Identity{}
			return
		}
		identity = Identity{
			UID:         record.UID,
			Email:       record.Email,
			DisplayName: record.DisplayName,
			Role:        record.Role,
			Credential:  authenticated.Credential,
		}
	}

	s.confirm(ctx, identity)
	return
}

// Logout requests provider-side termination. Local state is cleared by the
// provider's nil change notification, not synchronously here, so a slow
// provider response does not delay the transition once the notification
// lands.
func (s *SessionService) Logout(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("SessionService is nil")
	}
	if s.provider == nil {
		return fmt.Errorf("identity provider not configured")
	}

	logger := s.loggerWith(ctx, "Logout")
	if err := s.provider.Terminate(ctx); err != nil {
		logger.ErrorContext(ctx, "provider session termination failed", "error", err)
		return err
	}

	logger.InfoContext(ctx, "logout requested")
	return nil
}

// confirm records a successful register/login outcome directly. The
// provider also emits a matching change notification; both paths converge
// on the same state.
func (s *SessionService) confirm(ctx context.Context, identity Identity) {
	logger := s.loggerWith(ctx, "confirm")

	s.mu.Lock()
	s.phase = SessionConfirmed
	copied := identity
	s.identity = &copied
	s.mu.Unlock()

	s.persistSlot(ctx, logger, identity)
}

func (s *SessionService) persistSlot(ctx context.Context, logger *slog.Logger, identity Identity) {
	if s.slot == nil {
		return
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		logger.ErrorContext(ctx, "failed to serialize identity snapshot", "error", err)
		return
	}
	if err := s.slot.Set(ctx, identitySlotKey, string(raw)); err != nil {
		logger.ErrorContext(ctx, "failed to persist identity snapshot", "error", err)
	}
}

func (s *SessionService) clearSlot(ctx context.Context, logger *slog.Logger) {
	if s.slot == nil {
		return
	}
	if err := s.slot.Remove(ctx, identitySlotKey); err != nil && !errors.Is(err, persistence.ErrNotFound) {
		logger.ErrorContext(ctx, "failed to clear identity snapshot", "error", err)
	}
}

func validateRegisterParams(params RegisterParams) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(params.Email) == "" {
		vErr.add("email", "email is required")
	}
	if params.Password == "" {
		vErr.add("password", "password is required")
	}
	if strings.TrimSpace(params.DisplayName) == "" {
		vErr.add("name", "display name is required")
	}

	return vErr
}

// providerFailure maps a provider error onto the caller-facing rejection
// reason while keeping the sentinel reachable through errors.Is.
func providerFailure(err error) error {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return &ProviderError{Reason: "user already exists", Err: err}
	case errors.Is(err, ErrInvalidCredentials):
		return &ProviderError{Reason: "invalid credentials", Err: err}
	default:
		return &ProviderError{Reason: err.Error(), Err: err}
	}
}
