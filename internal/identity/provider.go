// Package identity ships the local implementation of the identity
// provider contract: accounts persisted in SQLite, Argon2id password
// hashes, HS256 bearer credentials, and a session change notification
// stream matching the external-provider semantics the application layer
// consumes.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/persistence"
)

// Provider implements application.IdentityProvider against a local
// credential store. It is the sole producer of session change
// notifications; subscribers receive them in emission order because the
// fan-out happens synchronously under the provider lock.
type Provider struct {
	credentials persistence.CredentialRepository
	secret      []byte
	tokenTTL    time.Duration
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger

	mu          sync.Mutex
	subscribers map[int]func(identity *application.Identity)
	nextSubID   int
}

// Config carries the provider dependencies.
type Config struct {
	Credentials persistence.CredentialRepository
	Secret      string
	TokenTTL    time.Duration
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewProvider constructs a local identity provider.
func NewProvider(cfg Config) *Provider {
	idGenerator := cfg.IDGenerator
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		credentials: cfg.Credentials,
		secret:      []byte(cfg.Secret),
		tokenTTL:    ttl,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
		subscribers: make(map[int]func(identity *application.Identity)),
	}
}

// Register creates an account and returns a freshly authenticated
// identity. A duplicate email is rejected with ErrAlreadyExists.
func (p *Provider) Register(ctx context.Context, params application.RegisterParams) (application.Identity, error) {
	if p == nil || p.credentials == nil {
		return application.Identity{}, fmt.Errorf("credential store not configured")
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	if email == "" || params.Password == "" {
		return application.Identity{}, application.ErrInvalidCredentials
	}

	if _, err := p.credentials.GetCredentialByEmail(ctx, email); err == nil {
		return application.Identity{}, application.ErrAlreadyExists
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return application.Identity{}, err
	}

	hash, err := hashPassword(params.Password, defaultArgon2idParams)
	if err != nil {
		return application.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	now := p.now()
	credential := persistence.Credential{
		ID:           p.idGenerator(),
		Email:        email,
		DisplayName:  strings.TrimSpace(params.DisplayName),
		Role:         string(params.Role),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.credentials.CreateCredential(ctx, credential); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			return application.Identity{}, application.ErrAlreadyExists
		}
		return application.Identity{}, err
	}

	identity, err := p.issueIdentity(credential)
	if err != nil {
		return application.Identity{}, err
	}

	p.logger.InfoContext(ctx, "identity registered", "uid", identity.UID, "email", identity.Email)
	p.notify(&identity)
	return identity, nil
}

// Authenticate verifies email and password and returns an identity with a
// freshly minted bearer credential.
func (p *Provider) Authenticate(ctx context.Context, email, password string) (application.Identity, error) {
	if p == nil || p.credentials == nil {
		return application.Identity{}, fmt.Errorf("credential store not configured")
	}

	normalized := strings.TrimSpace(strings.ToLower(email))
	if normalized == "" || password == "" {
		return application.Identity{}, application.ErrInvalidCredentials
	}

	credential, err := p.credentials.GetCredentialByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return application.Identity{}, application.ErrInvalidCredentials
		}
		return application.Identity{}, err
	}

	if err := verifyPassword(credential.PasswordHash, password); err != nil {
		return application.Identity{}, application.ErrInvalidCredentials
	}

	identity, err := p.issueIdentity(credential)
	if err != nil {
		return application.Identity{}, err
	}

	p.logger.InfoContext(ctx, "identity authenticated", "uid", identity.UID, "email", identity.Email)
	p.notify(&identity)
	return identity, nil
}

// Terminate ends the current session: subscribers receive a nil identity.
func (p *Provider) Terminate(ctx context.Context) error {
	if p == nil {
		return nil
	}
	p.logger.InfoContext(ctx, "session terminated")
	p.notify(nil)
	return nil
}

// Subscribe registers a session change callback and returns its
// unsubscribe function.
func (p *Provider) Subscribe(fn func(identity *application.Identity)) (unsubscribe func()) {
	if p == nil || fn == nil {
		return func() {}
	}

	p.mu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subscribers, id)
		p.mu.Unlock()
	}
}

// VerifyCredential validates a presented bearer credential and rebuilds
// the identity it was minted for.
func (p *Provider) VerifyCredential(ctx context.Context, raw string) (application.Identity, error) {
	if p == nil {
		return application.Identity{}, application.ErrInvalidCredentials
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return application.Identity{}, application.ErrInvalidCredentials
	}

	claims, err := parseCredential(trimmed, p.secret, p.now())
	if err != nil {
		return application.Identity{}, fmt.Errorf("%w: %w", application.ErrInvalidCredentials, err)
	}

	return application.Identity{
		UID:         claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		Role:        application.NormalizeRole(claims.Role),
		Credential:  trimmed,
	}, nil
}

func (p *Provider) issueIdentity(credential persistence.Credential) (application.Identity, error) {
	role := application.NormalizeRole(credential.Role)
	token, err := mintCredential(credential.ID, credential.Email, credential.DisplayName, role, p.secret, p.tokenTTL, p.now())
	if err != nil {
		return application.Identity{}, fmt.Errorf("mint bearer credential: %w", err)
	}
	return application.Identity{
		UID:         credential.ID,
		Email:       credential.Email,
		DisplayName: credential.DisplayName,
		Role:        role,
		Credential:  token,
	}, nil
}

func (p *Provider) notify(identity *application.Identity) {
	p.mu.Lock()
	subscribers := make([]func(identity *application.Identity), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subscribers = append(subscribers, fn)
	}
	p.mu.Unlock()

	for _, fn := range subscribers {
		if identity == nil {
			fn(nil)
			continue
		}
		copied := *identity
		fn(&copied)
	}
}
