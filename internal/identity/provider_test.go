package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/persistence"
)

type credentialStoreStub struct {
	mu      sync.Mutex
	records map[string]persistence.Credential
}

func newCredentialStoreStub() *credentialStoreStub {
	return &credentialStoreStub{records: make(map[string]persistence.Credential)}
}

func (s *credentialStoreStub) CreateCredential(ctx context.Context, credential persistence.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.records {
		if existing.Email == credential.Email {
			return persistence.ErrDuplicate
		}
	}
	s.records[credential.ID] = credential
	return nil
}

func (s *credentialStoreStub) GetCredential(ctx context.Context, id string) (persistence.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	credential, ok := s.records[id]
	if !ok {
		return persistence.Credential{}, persistence.ErrNotFound
	}
	return credential, nil
}

func (s *credentialStoreStub) GetCredentialByEmail(ctx context.Context, email string) (persistence.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, credential := range s.records {
		if credential.Email == email {
			return credential, nil
		}
	}
	return persistence.Credential{}, persistence.ErrNotFound
}

func newTestProvider(store *credentialStoreStub) *Provider {
	counter := 0
	return NewProvider(Config{
		Credentials: store,
		Secret:      "test-secret",
		TokenTTL:    time.Hour,
		IDGenerator: func() string { counter++; return fmt.Sprintf("uid-%d", counter) },
		Now:         func() time.Time { return time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC) },
	})
}

func TestProviderRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("issues identity with bearer credential", func(t *testing.T) {
		provider := newTestProvider(newCredentialStoreStub())

		identity, err := provider.Register(ctx, application.RegisterParams{
			Email:       "User@Example.com",
			Password:    "secret123",
			DisplayName: "User One",
			Role:        application.RoleUser,
		})
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if identity.Email != "user@example.com" {
			t.Fatalf("expected normalized email, got %q", identity.Email)
		}
		if identity.Credential == "" {
			t.Fatalf("expected bearer credential to be minted")
		}

		verified, err := provider.VerifyCredential(ctx, identity.Credential)
		if err != nil {
			t.Fatalf("VerifyCredential: %v", err)
		}
		if verified.UID != identity.UID || verified.Email != identity.Email {
			t.Fatalf("verified identity mismatch: %+v vs %+v", verified, identity)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		provider := newTestProvider(newCredentialStoreStub())

		params := application.RegisterParams{Email: "a@example.com", Password: "pw", DisplayName: "A"}
		if _, err := provider.Register(ctx, params); err != nil {
			t.Fatalf("first Register: %v", err)
		}
		if _, err := provider.Register(ctx, params); !errors.Is(err, application.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("notifies subscribers", func(t *testing.T) {
		provider := newTestProvider(newCredentialStoreStub())

		var notified *application.Identity
		unsubscribe := provider.Subscribe(func(identity *application.Identity) {
			notified = identity
		})
		defer unsubscribe()

		identity, err := provider.Register(ctx, application.RegisterParams{Email: "a@example.com", Password: "pw", DisplayName: "A"})
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if notified == nil || notified.UID != identity.UID {
			t.Fatalf("expected notification with registered identity, got %+v", notified)
		}
	})
}

func TestProviderAuthenticate(t *testing.T) {
	ctx := context.Background()
	provider := newTestProvider(newCredentialStoreStub())

	registered, err := provider.Register(ctx, application.RegisterParams{
		Email:       "a@example.com",
		Password:    "correct horse",
		DisplayName: "A",
		Role:        application.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		identity, err := provider.Authenticate(ctx, "a@example.com", "correct horse")
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if identity.UID != registered.UID {
			t.Fatalf("expected uid %q, got %q", registered.UID, identity.UID)
		}
		if identity.Role != application.RoleAdmin {
			t.Fatalf("expected admin role, got %q", identity.Role)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := provider.Authenticate(ctx, "a@example.com", "wrong"); !errors.Is(err, application.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, err := provider.Authenticate(ctx, "nobody@example.com", "pw"); !errors.Is(err, application.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestProviderTerminate(t *testing.T) {
	provider := newTestProvider(newCredentialStoreStub())

	received := make([]*application.Identity, 0, 1)
	unsubscribe := provider.Subscribe(func(identity *application.Identity) {
		received = append(received, identity)
	})
	defer unsubscribe()

	if err := provider.Terminate(context.Background()); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if len(received) != 1 || received[0] != nil {
		t.Fatalf("expected single nil notification, got %+v", received)
	}
}

func TestProviderUnsubscribe(t *testing.T) {
	provider := newTestProvider(newCredentialStoreStub())

	calls := 0
	unsubscribe := provider.Subscribe(func(*application.Identity) { calls++ })
	unsubscribe()

	if err := provider.Terminate(context.Background()); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no callbacks after unsubscribe, got %d", calls)
	}
}

func TestVerifyCredentialRejectsGarbage(t *testing.T) {
	provider := newTestProvider(newCredentialStoreStub())

	if _, err := provider.VerifyCredential(context.Background(), "not-a-token"); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := provider.VerifyCredential(context.Background(), "   "); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for blank token, got %v", err)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := hashPassword("hunter2", defaultArgon2idParams)
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	if err := verifyPassword(hash, "hunter2"); err != nil {
		t.Fatalf("verifyPassword: %v", err)
	}
	if err := verifyPassword(hash, "hunter3"); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := verifyPassword("garbage", "hunter2"); !errors.Is(err, ErrInvalidPasswordHash) {
		t.Fatalf("expected ErrInvalidPasswordHash, got %v", err)
	}
}
