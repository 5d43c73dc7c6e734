package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

// CredentialRepository implements persistence.CredentialRepository over SQLite.
type CredentialRepository struct {
	db *DB
}

// NewCredentialRepository constructs a credential repository.
func NewCredentialRepository(db *DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// CreateCredential inserts a new account record. A duplicate email is
// reported as persistence.ErrDuplicate.
func (r *CredentialRepository) CreateCredential(ctx context.Context, credential persistence.Credential) error {
	query := `
		INSERT INTO credentials (id, email, display_name, role, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.db.ExecContext(ctx, query,
		credential.ID,
		normalizeEmail(credential.Email),
		credential.DisplayName,
		credential.Role,
		credential.PasswordHash,
		credential.CreatedAt.UTC().Format(time.RFC3339),
		credential.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapSQLError(err)
}

// GetCredential retrieves an account record by ID.
func (r *CredentialRepository) GetCredential(ctx context.Context, id string) (persistence.Credential, error) {
	query := `
		SELECT id, email, display_name, role, password_hash, created_at, updated_at
		FROM credentials WHERE id = ?
	`
	return r.scanCredential(r.db.db.QueryRowContext(ctx, query, id))
}

// GetCredentialByEmail retrieves an account record by normalized email.
func (r *CredentialRepository) GetCredentialByEmail(ctx context.Context, email string) (persistence.Credential, error) {
	query := `
		SELECT id, email, display_name, role, password_hash, created_at, updated_at
		FROM credentials WHERE email = ?
	`
	return r.scanCredential(r.db.db.QueryRowContext(ctx, query, normalizeEmail(email)))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *CredentialRepository) scanCredential(row rowScanner) (persistence.Credential, error) {
	var credential persistence.Credential
	var createdAt, updatedAt string

	err := row.Scan(
		&credential.ID,
		&credential.Email,
		&credential.DisplayName,
		&credential.Role,
		&credential.PasswordHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Credential{}, mapSQLError(err)
	}

	credential.CreatedAt = parseTimestamp(createdAt)
	credential.UpdatedAt = parseTimestamp(updatedAt)
	return credential, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseTimestamp(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
