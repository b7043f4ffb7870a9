package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sipico/ddns-endpoint/internal/metrics"
	"github.com/sipico/ddns-endpoint/internal/middleware"
)

// NewRouter creates a Chi router with the update and health endpoints.
// The logger parameter is used for debug logging of HTTP requests/responses.
func NewRouter(handler *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.HTTPLogging(logger))
	r.Use(metrics.Middleware)

	r.Get("/update", handler.HandleUpdate)
	r.Get("/healthz", handler.HandleHealth)
	r.Get("/readyz", handler.HandleReady)

	// Any other path gets the same JSON shape as the update endpoint.
	r.NotFound(handler.HandleNotFound)
	r.MethodNotAllowed(handler.HandleNotFound)

	return r
}
