package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestInit_RegistersAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Init(reg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	RecordRequest("GET", "/update", "200")
	RecordRequestDuration("GET", "/update", "200", 0.01)
	RecordAuthFailure("unauthorized")
	RecordUpdate(OutcomeUpdated)

	text, err := GetMetricsText(reg)
	if err != nil {
		t.Fatalf("GetMetricsText failed: %v", err)
	}

	for _, want := range []string{
		"ddns_endpoint_requests_total",
		"ddns_endpoint_request_duration_seconds",
		"ddns_endpoint_auth_failures_total",
		"ddns_endpoint_updates_total",
		"ddns_endpoint_info",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected metric %q in output", want)
		}
	}
}

func TestInit_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Init(reg); err != nil {
		t.Fatalf("first Init failed: %v", err)
	}
	if err := Init(reg); err == nil {
		t.Error("expected error on duplicate registration")
	}
}

func TestMiddleware_RecordsStatus(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/update", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("middleware altered status: got %d", w.Code)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/update", "/update"},
		{"/healthz", "/healthz"},
		{"/readyz", "/readyz"},
		{"/anything-else", "other"},
		{"/", "other"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
