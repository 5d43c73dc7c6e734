package sqlite

import (
	"context"
)

// SlotRepository implements the durable local key-value slot over SQLite.
// Only a single key is used in practice, but the table is generic.
type SlotRepository struct {
	db *DB
}

// NewSlotRepository constructs a slot repository.
func NewSlotRepository(db *DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// Get returns the value stored under key, or persistence.ErrNotFound.
func (r *SlotRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", mapSQLError(err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (r *SlotRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO slots (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	_, err := r.db.db.ExecContext(ctx, query, key, value)
	return mapSQLError(err)
}

// Remove deletes the entry under key. Removing an absent key is a no-op.
func (r *SlotRepository) Remove(ctx context.Context, key string) error {
	_, err := r.db.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key)
	return mapSQLError(err)
}
