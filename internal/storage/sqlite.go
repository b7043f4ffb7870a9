package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // database/sql driver
)

// SQLiteStore implements UserDirectory on a SQLite key-value table.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore.
// The dbPath is the file path for the SQLite database (or ":memory:" for tests).
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := InitSchema(db); err != nil {
		_ = db.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Enable WAL mode for better concurrent access support
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	// Wait for locks instead of failing immediately (5 seconds)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// modernc.org/sqlite requires a single connection for in-process file
	// databases to avoid "database is locked" errors
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db}, nil
}

// get returns the value for a key, or ErrNotFound.
func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get %q: %w", key, err)
	}
	return value, nil
}

// put upserts a single key. Single-row writes are atomic in SQLite, which is
// all the update path depends on.
func (s *SQLiteStore) put(ctx context.Context, key, value string) error {
	query := "INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)"
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to put %q: %w", key, err)
	}
	return nil
}

// GetToken returns the expected credential secret for a user.
func (s *SQLiteStore) GetToken(ctx context.Context, user string) (string, error) {
	return s.get(ctx, tokenKey(user))
}

// GetCurrentIP returns the last IP successfully applied to DNS.
func (s *SQLiteStore) GetCurrentIP(ctx context.Context, user string) (string, error) {
	return s.get(ctx, currentIPKey(user))
}

// SetCurrentIP persists the IP after the provider confirmed the update.
func (s *SQLiteStore) SetCurrentIP(ctx context.Context, user, ip string) error {
	return s.put(ctx, currentIPKey(user), ip)
}

// GetRecordID returns the cached provider record id for a user.
func (s *SQLiteStore) GetRecordID(ctx context.Context, user string) (string, error) {
	return s.get(ctx, recordIDKey(user))
}

// SetRecordID caches the provider record id after a successful create.
func (s *SQLiteStore) SetRecordID(ctx context.Context, user, recordID string) error {
	return s.put(ctx, recordIDKey(user), recordID)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
