// Package storage provides the SQLite-backed user directory for the DDNS endpoint.
package storage

import (
	"context"
)

// UserDirectory defines the persistence operations the update path needs.
// One logical record per provisioned user: expected token, last applied IP,
// and the cached provider record id.
type UserDirectory interface {
	// GetToken returns the expected credential secret for a user.
	// Returns ErrNotFound for unknown users.
	GetToken(ctx context.Context, user string) (string, error)

	// GetCurrentIP returns the last IP successfully applied to DNS.
	// Returns ErrNotFound if no update has succeeded yet.
	GetCurrentIP(ctx context.Context, user string) (string, error)

	// SetCurrentIP persists the IP after the provider confirmed the update.
	SetCurrentIP(ctx context.Context, user, ip string) error

	// GetRecordID returns the cached provider record id for a user.
	// Returns ErrNotFound if no record has been created yet.
	GetRecordID(ctx context.Context, user string) (string, error)

	// SetRecordID caches the provider record id after a successful create.
	SetRecordID(ctx context.Context, user, recordID string) error
}
