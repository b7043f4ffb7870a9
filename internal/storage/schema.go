// Package storage handles all database operations for the DDNS endpoint.
package storage

import (
	"database/sql"
	"fmt"
)

// InitSchema creates all required tables.
// This is idempotent - safe to call multiple times.
func InitSchema(db *sql.DB) error {
	// kv table: the durable string->string map backing the user directory.
	// One row per key; writes are single-row and therefore atomic, which is
	// the only consistency guarantee the update path relies on.
	ddl := `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("failed to execute DDL: %w", err)
	}

	return nil
}
