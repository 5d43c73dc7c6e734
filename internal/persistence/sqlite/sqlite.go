// Package sqlite backs the externally-owned stores — identity provider
// credentials, user profile documents, and the durable local slot — with a
// SQLite database through the pure-Go modernc.org driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/room-booking/internal/persistence"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	display_name  TEXT NOT NULL,
	role          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
	uid          TEXT PRIMARY KEY,
	email        TEXT NOT NULL,
	display_name TEXT NOT NULL,
	role         TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS slots (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// DB wraps the database handle shared by the repositories.
type DB struct {
	db *sql.DB
}

// Open opens the database at the given DSN and ensures the schema exists.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// The modernc driver serializes access per connection; a single
	// connection avoids SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close releases the database handle.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Ping verifies the database connection.
func (d *DB) Ping(ctx context.Context) error {
	if d == nil || d.db == nil {
		return fmt.Errorf("database not opened")
	}
	return d.db.PingContext(ctx)
}

// mapSQLError translates driver errors into persistence sentinels.
func mapSQLError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return persistence.ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return persistence.ErrDuplicate
	}
	return err
}
