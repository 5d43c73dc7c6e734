package sqlite

import (
	"context"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

// ProfileRepository implements persistence.ProfileRepository over SQLite.
type ProfileRepository struct {
	db  *DB
	now func() time.Time
}

// NewProfileRepository constructs a profile repository.
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db, now: time.Now}
}

// WriteProfile upserts the profile document for the given unique id.
func (r *ProfileRepository) WriteProfile(ctx context.Context, profile persistence.Profile) error {
	now := r.now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO profiles (uid, email, display_name, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(uid) DO UPDATE SET
			email = excluded.email,
			display_name = excluded.display_name,
			role = excluded.role,
			updated_at = excluded.updated_at
	`
	_, err := r.db.db.ExecContext(ctx, query,
		profile.UID,
		normalizeEmail(profile.Email),
		profile.DisplayName,
		profile.Role,
		now,
		now,
	)
	return mapSQLError(err)
}

// ReadProfile retrieves the profile document for the given unique id.
func (r *ProfileRepository) ReadProfile(ctx context.Context, uid string) (persistence.Profile, error) {
	query := `
		SELECT uid, email, display_name, role, created_at, updated_at
		FROM profiles WHERE uid = ?
	`
	var profile persistence.Profile
	var createdAt, updatedAt string

	err := r.db.db.QueryRowContext(ctx, query, uid).Scan(
		&profile.UID,
		&profile.Email,
		&profile.DisplayName,
		&profile.Role,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Profile{}, mapSQLError(err)
	}

	profile.CreatedAt = parseTimestamp(createdAt)
	profile.UpdatedAt = parseTimestamp(updatedAt)
	return profile, nil
}
