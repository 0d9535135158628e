// Package sqlite is the SQLite credential store, used for single-node
// deployments and as the in-memory store in tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Open creates a SQLite connection and applies the schema.
// dsn examples: "file:accounts.db?cache=shared&mode=rwc" or ":memory:".
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// A :memory: database lives and dies with its connection.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", p, err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	if err := AutoMigrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return db, nil
}

// AutoMigrate creates the users table and its indexes if missing.
func AutoMigrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Mirrors db/migrations on Postgres. Logins are unique case-insensitively.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    login         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL,
    gender        INTEGER NOT NULL DEFAULT 2,
    birthday      DATE,
    is_admin      INTEGER NOT NULL DEFAULT 0,
    created_on    DATETIME NOT NULL,
    created_by    TEXT NOT NULL,
    modified_on   DATETIME NOT NULL,
    modified_by   TEXT NOT NULL,
    revoked_on    DATETIME,
    revoked_by    TEXT,
    CHECK ((revoked_on IS NULL) = (revoked_by IS NULL))
);
CREATE UNIQUE INDEX IF NOT EXISTS users_login_lower_key ON users (lower(login));
CREATE INDEX IF NOT EXISTS users_created_on_idx ON users (created_on);
`
