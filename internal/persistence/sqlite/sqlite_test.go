package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return db
}

func TestCredentialRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewCredentialRepository(db)
	ctx := context.Background()
	now := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

	credential := persistence.Credential{
		ID:           "uid-1",
		Email:        "User@Example.com",
		DisplayName:  "User One",
		Role:         "user",
		PasswordHash: "$argon2id$...",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := repo.CreateCredential(ctx, credential); err != nil {
		t.Fatalf("CreateCredential: %v", err)
	}

	t.Run("lookup by id", func(t *testing.T) {
		stored, err := repo.GetCredential(ctx, "uid-1")
		if err != nil {
			t.Fatalf("GetCredential: %v", err)
		}
		if stored.Email != "user@example.com" {
			t.Fatalf("expected normalized email, got %q", stored.Email)
		}
		if !stored.CreatedAt.Equal(now) {
			t.Fatalf("expected created_at %v, got %v", now, stored.CreatedAt)
		}
	})

	t.Run("lookup by email is case insensitive", func(t *testing.T) {
		stored, err := repo.GetCredentialByEmail(ctx, "USER@example.COM")
		if err != nil {
			t.Fatalf("GetCredentialByEmail: %v", err)
		}
		if stored.ID != "uid-1" {
			t.Fatalf("expected uid-1, got %q", stored.ID)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := credential
		dup.ID = "uid-2"
		if err := repo.CreateCredential(ctx, dup); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("missing record reports not found", func(t *testing.T) {
		if _, err := repo.GetCredential(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := repo.GetCredentialByEmail(ctx, "missing@example.com"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestProfileRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	profile := persistence.Profile{
		UID:         "uid-1",
		Email:       "user@example.com",
		DisplayName: "User One",
		Role:        "user",
	}
	if err := repo.WriteProfile(ctx, profile); err != nil {
		t.Fatalf("WriteProfile: %v", err)
	}

	stored, err := repo.ReadProfile(ctx, "uid-1")
	if err != nil {
		t.Fatalf("ReadProfile: %v", err)
	}
	if stored.DisplayName != "User One" {
		t.Fatalf("unexpected profile: %+v", stored)
	}

	t.Run("write is an upsert", func(t *testing.T) {
		profile.DisplayName = "Renamed"
		if err := repo.WriteProfile(ctx, profile); err != nil {
			t.Fatalf("WriteProfile: %v", err)
		}
		stored, err := repo.ReadProfile(ctx, "uid-1")
		if err != nil {
			t.Fatalf("ReadProfile: %v", err)
		}
		if stored.DisplayName != "Renamed" {
			t.Fatalf("expected upserted display name, got %q", stored.DisplayName)
		}
	})

	t.Run("missing profile reports not found", func(t *testing.T) {
		if _, err := repo.ReadProfile(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSlotRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewSlotRepository(db)
	ctx := context.Background()

	if _, err := repo.Get(ctx, "user"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty slot, got %v", err)
	}

	if err := repo.Set(ctx, "user", `{"email":"a@example.com"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, err := repo.Get(ctx, "user")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != `{"email":"a@example.com"}` {
		t.Fatalf("unexpected slot value %q", value)
	}

	if err := repo.Set(ctx, "user", `{"email":"b@example.com"}`); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	value, err = repo.Get(ctx, "user")
	if err != nil {
		t.Fatalf("Get after overwrite: %v", err)
	}
	if value != `{"email":"b@example.com"}` {
		t.Fatalf("expected overwritten value, got %q", value)
	}

	if err := repo.Remove(ctx, "user"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := repo.Get(ctx, "user"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}

	// Removing an absent key must not error.
	if err := repo.Remove(ctx, "user"); err != nil {
		t.Fatalf("Remove absent key: %v", err)
	}
}
