// Package metrics provides Prometheus metrics collection for the DDNS endpoint.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Global metrics - used by the application
	// Using atomic.Pointer for lock-free initialization checks on hot path metrics.
	requestsTotal     atomic.Pointer[prometheus.CounterVec]
	requestDuration   atomic.Pointer[prometheus.HistogramVec]
	authFailuresTotal atomic.Pointer[prometheus.CounterVec]
	updatesTotal      atomic.Pointer[prometheus.CounterVec]
)

// Update outcome labels for RecordUpdate.
const (
	OutcomeNoop          = "noop"
	OutcomeUpdated       = "updated"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeProviderError = "provider_error"
)

// Init initializes all Prometheus metrics and registers them with the provided registry.
// This should be called once at application startup.
func Init(reg prometheus.Registerer) error {
	// HTTP request counter: tracks all requests by method, path, and status code
	requestsTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ddns",
			Subsystem: "endpoint",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled by the endpoint",
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requestsTotalVec); err != nil {
		return fmt.Errorf("failed to register requestsTotal: %w", err)
	}

	// Request duration histogram: tracks latency distribution
	requestDurationVec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ddns",
			Subsystem: "endpoint",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requestDurationVec); err != nil {
		return fmt.Errorf("failed to register requestDuration: %w", err)
	}

	// Auth failures counter: tracks failed authentication attempts
	authFailuresTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ddns",
			Subsystem: "endpoint",
			Name:      "auth_failures_total",
			Help:      "Total number of authentication failures",
		},
		[]string{"reason"},
	)
	if err := reg.Register(authFailuresTotalVec); err != nil {
		return fmt.Errorf("failed to register authFailuresTotal: %w", err)
	}

	// Update outcome counter: tracks what each update request resulted in
	updatesTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ddns",
			Subsystem: "endpoint",
			Name:      "updates_total",
			Help:      "Total number of update requests by outcome",
		},
		[]string{"outcome"},
	)
	if err := reg.Register(updatesTotalVec); err != nil {
		return fmt.Errorf("failed to register updatesTotal: %w", err)
	}

	// Info gauge: static metric with constant label values for build info
	infoGaugeVec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ddns",
			Subsystem: "endpoint",
			Name:      "info",
			Help:      "Endpoint version and build information",
		},
		[]string{"version"},
	)
	infoGaugeInstance := infoGaugeVec.WithLabelValues("1.0.0")
	if err := reg.Register(infoGaugeVec); err != nil {
		return fmt.Errorf("failed to register infoGauge: %w", err)
	}
	infoGaugeInstance.Set(1)

	// Store metrics in atomics for lock-free access in record functions
	requestsTotal.Store(requestsTotalVec)
	requestDuration.Store(requestDurationVec)
	authFailuresTotal.Store(authFailuresTotalVec)
	updatesTotal.Store(updatesTotalVec)

	return nil
}

// RecordRequest increments the requests counter for the given method, path, and status code.
func RecordRequest(method, path, statusCode string) {
	if counter := requestsTotal.Load(); counter != nil {
		counter.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordRequestDuration records the latency for a request.
// Duration should be in seconds.
func RecordRequestDuration(method, path, statusCode string, durationSeconds float64) {
	if histogram := requestDuration.Load(); histogram != nil {
		histogram.WithLabelValues(method, path, statusCode).Observe(durationSeconds)
	}
}

// RecordAuthFailure increments the auth failures counter for the given reason.
// Common reasons: "malformed", "invalid_format", "unauthorized"
func RecordAuthFailure(reason string) {
	if counter := authFailuresTotal.Load(); counter != nil {
		counter.WithLabelValues(reason).Inc()
	}
}

// RecordUpdate increments the updates counter for the given outcome.
func RecordUpdate(outcome string) {
	if counter := updatesTotal.Load(); counter != nil {
		counter.WithLabelValues(outcome).Inc()
	}
}

// Handler returns an HTTP handler for Prometheus metrics in text format.
// This handler should be registered at /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// GetMetricsText returns the Prometheus text-format output from a registry.
// This is useful for testing and debugging.
func GetMetricsText(reg prometheus.Gatherer) (string, error) {
	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	body, err := io.ReadAll(w.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read metrics output: %w", err)
	}

	return string(body), nil
}
