package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Items are keyed by generated UUIDs. image_urls holds a JSON array of the
// reported image URLs; photo holds an optionally uploaded processed blob.
// Users are soft-deleted so items keep a resolvable reporter reference;
// items themselves are hard-deleted (no recovery).
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'staff' CHECK (role IN ('staff', 'admin', 'superAdmin')),
    department    TEXT NOT NULL DEFAULT '',
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    date_found    TEXT NOT NULL,
    location      TEXT NOT NULL,
    description   TEXT NOT NULL,
    category      TEXT NOT NULL,
    image_urls    TEXT NOT NULL,
    status        TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'claimed')),
    claimant_name TEXT,
    claimed_date  TEXT,
    department    TEXT NOT NULL DEFAULT '',
    reporter_id   TEXT NOT NULL REFERENCES users(id),
    photo         BLOB,
    photo_mime    TEXT,
    created_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at);
CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);
CREATE INDEX IF NOT EXISTS idx_items_category ON items(category);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
