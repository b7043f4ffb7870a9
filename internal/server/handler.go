// Package server implements the HTTP surface of the DDNS endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sipico/ddns-endpoint/internal/auth"
	"github.com/sipico/ddns-endpoint/internal/metrics"
	"github.com/sipico/ddns-endpoint/internal/updater"
)

// Response reasons for the fixed outcomes of the update endpoint.
// Clients match on these strings, so they are part of the API contract.
const (
	ReasonBadPath       = "Bad URL path"
	ReasonNoIP          = "No IP specified."
	ReasonBadAuth       = "Malformed Authorization header."
	ReasonUnauthorized  = "Invalid credentials."
	ReasonCreateFailed  = "DNS record creation failed."
	ReasonInternalError = "Internal server error."
)

// statusResponse is the JSON body for every update endpoint outcome.
// Reason is always present, empty on a plain success.
type statusResponse struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason"`
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler handles DDNS update and health requests.
type Handler struct {
	updater *updater.Updater
	store   Pinger
	logger  *slog.Logger
}

// NewHandler creates a new endpoint handler.
// If logger is nil, slog.Default() will be used.
func NewHandler(u *updater.Updater, store Pinger, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		updater: u,
		store:   store,
		logger:  logger,
	}
}

// writeStatus writes the canonical {success, reason} JSON body.
func writeStatus(w http.ResponseWriter, status int, success bool, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(statusResponse{Success: success, Reason: reason}); err != nil {
		// Log encoding errors but don't fail the response
		slog.Default().Error("failed to encode JSON response", "error", err)
	}
}

// HandleUpdate processes a dynamic DNS update.
// GET /update?ip=<address> with Basic authorization.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ip := r.URL.Query().Get("ip")
	if ip == "" {
		writeStatus(w, http.StatusUnprocessableEntity, false, ReasonNoIP)
		return
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		w.Header().Set("WWW-Authenticate", `Basic realm="update", charset="UTF-8"`)
		writeStatus(w, http.StatusUnauthorized, false, ReasonUnauthorized)
		return
	}

	cred, err := auth.DecodeBasic(header)
	if err != nil {
		metrics.RecordAuthFailure("malformed")
		writeStatus(w, http.StatusBadRequest, false, ReasonBadAuth)
		return
	}

	result, err := h.updater.HandleUpdate(r.Context(), cred, ip)
	switch {
	case err == nil:
		// Both success and a failed update call are terminal outcomes for
		// the caller; it retries on its own polling schedule.
		switch {
		case result.Success && result.Reason == updater.ReasonUnchanged:
			metrics.RecordUpdate(metrics.OutcomeNoop)
		case result.Success:
			metrics.RecordUpdate(metrics.OutcomeUpdated)
		default:
			metrics.RecordUpdate(metrics.OutcomeProviderError)
		}
		writeStatus(w, http.StatusOK, result.Success, result.Reason)

	case errors.Is(err, updater.ErrUnauthorized):
		metrics.RecordAuthFailure("unauthorized")
		metrics.RecordUpdate(metrics.OutcomeUnauthorized)
		writeStatus(w, http.StatusUnauthorized, false, ReasonUnauthorized)

	default:
		var provErr *updater.ProviderError
		if errors.As(err, &provErr) {
			metrics.RecordUpdate(metrics.OutcomeProviderError)
			h.logger.Error("dns record creation failed", "user", cred.User, "error", err)
			writeStatus(w, http.StatusBadGateway, false, ReasonCreateFailed)
			return
		}
		h.logger.Error("update failed", "user", cred.User, "error", err)
		writeStatus(w, http.StatusInternalServerError, false, ReasonInternalError)
	}
}

// HandleNotFound rejects every path other than the registered ones.
func (h *Handler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusNotFound, false, ReasonBadPath)
}

// HandleHealth returns basic health status
// GET /healthz
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Response write errors are unrecoverable
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleReady checks database connectivity
// GET /readyz
// Returns 200 if the store is accessible, 503 otherwise
func (h *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.store == nil || h.store.Ping(ctx) != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		//nolint:errcheck // Response write errors are unrecoverable
		json.NewEncoder(w).Encode(map[string]string{
			"status":   "error",
			"database": "unavailable",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Response write errors are unrecoverable
	json.NewEncoder(w).Encode(map[string]string{
		"status":   "ok",
		"database": "connected",
	})
}
