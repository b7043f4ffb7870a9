package storage

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// UserInfo summarizes one provisioned user for the admin CLI.
type UserInfo struct {
	User      string
	CurrentIP string // empty until the first successful update
	RecordID  string // empty until the first record creation
	UpdatedAt time.Time
}

// SetToken provisions or replaces the expected credential secret for a user.
// Provisioning happens only through the admin CLI, never through the HTTP
// update surface.
func (s *SQLiteStore) SetToken(ctx context.Context, user, token string) error {
	return s.put(ctx, tokenKey(user), token)
}

// DeleteUser removes all keys belonging to a user.
// Each key is deleted independently; there is no cross-key transaction,
// matching the single-key atomicity the rest of the store offers.
func (s *SQLiteStore) DeleteUser(ctx context.Context, user string) error {
	for _, key := range []string{tokenKey(user), currentIPKey(user), recordIDKey(user)} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
			return fmt.Errorf("failed to delete %q: %w", key, err)
		}
	}
	return nil
}

// ListUsers returns all provisioned users with their recorded state.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]UserInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key, updated_at FROM kv WHERE key LIKE ?", keyPrefix+"%"+suffixToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() {
		//nolint:errcheck
		rows.Close()
	}()

	var users []UserInfo
	for rows.Next() {
		var key string
		var updatedAt time.Time
		if err := rows.Scan(&key, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		user := userFromTokenKey(key)
		if user == "" {
			continue
		}
		users = append(users, UserInfo{User: user, UpdatedAt: updatedAt})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	// Fill in per-user state after the token scan finished; a second query
	// per user is fine at admin-CLI scale.
	for i := range users {
		if ip, err := s.GetCurrentIP(ctx, users[i].User); err == nil {
			users[i].CurrentIP = ip
		}
		if id, err := s.GetRecordID(ctx, users[i].User); err == nil {
			users[i].RecordID = id
		}
	}

	sort.Slice(users, func(i, j int) bool { return users[i].User < users[j].User })
	return users, nil
}
