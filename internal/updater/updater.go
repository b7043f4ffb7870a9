// Package updater implements the update orchestration for the DDNS endpoint.
package updater

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sipico/ddns-endpoint/internal/auth"
	"github.com/sipico/ddns-endpoint/internal/storage"
)

// ReasonUnchanged is returned when the requested IP already matches the
// recorded one and no remote work is done.
const ReasonUnchanged = "IP has not changed since last update."

// ReasonUpdateFailed is returned when the provider rejected the update call.
// The caller is expected to retry at its next poll interval.
const ReasonUpdateFailed = "DNS update failed."

// ErrUnauthorized is returned for an unknown user or a token mismatch.
// The two cases are deliberately indistinguishable.
var ErrUnauthorized = errors.New("updater: unauthorized")

// ProviderError wraps a failed DNS provider call that aborted the operation.
type ProviderError struct {
	Op  string // "create" or "update"
	Err error
}

// Error implements the error interface for ProviderError.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("updater: dns %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying provider error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// DNSProvider defines the provider operations the orchestrator needs.
// This interface enables testing with mock implementations.
type DNSProvider interface {
	// CreateRecord creates an A record for the host with a placeholder
	// address and returns the provider's record id.
	CreateRecord(ctx context.Context, host string) (string, error)

	// UpdateRecord points the record at ip.
	UpdateRecord(ctx context.Context, recordID, host, ip string) error
}

// Result is the outcome of an update request.
type Result struct {
	Success bool
	Reason  string
}

// Updater drives the authenticate / short-circuit / create / update / persist
// sequence for one request at a time. It holds no mutable state of its own;
// everything durable lives in the user directory. Concurrent requests for
// the same user race last-write-wins, which is acceptable for infrequent,
// idempotent DNS updates.
type Updater struct {
	store  storage.UserDirectory
	dns    DNSProvider
	logger *slog.Logger
}

// New creates a new Updater.
// If logger is nil, slog.Default() will be used.
func New(store storage.UserDirectory, dns DNSProvider, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{
		store:  store,
		dns:    dns,
		logger: logger,
	}
}

// HandleUpdate authenticates the credential and drives the DNS record to the
// requested IP.
//
// Side-effect bounds per invocation: at most one create call,
// at most one update call, at most two directory writes, and each write
// happens only after the corresponding remote call succeeded. An update-step
// provider failure is reported in the Result with no error and no state
// mutation (no-retry policy); a create-step failure aborts with a
// *ProviderError before any update is attempted.
func (u *Updater) HandleUpdate(ctx context.Context, cred auth.Credential, requestedIP string) (Result, error) {
	// Authenticate. Unknown user and wrong token produce the same error so
	// responses never leak whether a username is provisioned.
	token, err := u.store.GetToken(ctx, cred.User)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Result{}, ErrUnauthorized
		}
		return Result{}, fmt.Errorf("token lookup failed: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(cred.Token)) != 1 {
		return Result{}, ErrUnauthorized
	}

	// Idempotency short-circuit: no remote calls when nothing changed.
	currentIP, err := u.store.GetCurrentIP(ctx, cred.User)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return Result{}, fmt.Errorf("current IP lookup failed: %w", err)
	}
	if err == nil && currentIP == requestedIP {
		return Result{Success: true, Reason: ReasonUnchanged}, nil
	}

	// Resolve the provider record id, creating the record lazily on first use.
	recordID, err := u.store.GetRecordID(ctx, cred.User)
	if errors.Is(err, storage.ErrNotFound) {
		recordID, err = u.dns.CreateRecord(ctx, cred.User)
		if err != nil {
			return Result{}, &ProviderError{Op: "create", Err: err}
		}
		u.logger.Info("created dns record", "user", cred.User, "record_id", recordID)

		// Persist before the update so the record is never created twice.
		if err := u.store.SetRecordID(ctx, cred.User, recordID); err != nil {
			return Result{}, fmt.Errorf("failed to persist record id: %w", err)
		}
	} else if err != nil {
		return Result{}, fmt.Errorf("record id lookup failed: %w", err)
	}

	if err := u.dns.UpdateRecord(ctx, recordID, cred.User, requestedIP); err != nil {
		// No state mutation: the previous current-ip and record id stay
		// valid and the periodic caller retries on its own schedule.
		u.logger.Warn("dns update failed", "user", cred.User, "record_id", recordID, "error", err)
		return Result{Success: false, Reason: ReasonUpdateFailed}, nil
	}

	if err := u.store.SetCurrentIP(ctx, cred.User, requestedIP); err != nil {
		return Result{}, fmt.Errorf("failed to persist current IP: %w", err)
	}

	u.logger.Info("updated dns record", "user", cred.User, "record_id", recordID, "ip", requestedIP)
	return Result{Success: true}, nil
}
