package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/update", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if seen == "" {
		t.Fatal("expected a generated request ID in context")
	}
	if got := w.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("response header %q does not match context ID %q", got, seen)
	}
}

func TestRequestID_ReusesValidHeader(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/update", nil)
	req.Header.Set("X-Request-ID", "client-id-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if seen != "client-id-123" {
		t.Errorf("expected client-supplied ID to be reused, got %q", seen)
	}
}

func TestRequestID_RejectsInvalidHeader(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"too long", strings.Repeat("a", 129)},
		{"invalid chars", "bad id with spaces"},
		{"control chars", "bad\x00id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/update", nil)
			req.Header.Set("X-Request-ID", tt.id)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if seen == tt.id {
				t.Errorf("invalid ID %q should have been replaced", tt.id)
			}
			if seen == "" {
				t.Error("expected a replacement ID")
			}
		})
	}
}

func TestGetRequestID_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/update", nil)
	if got := GetRequestID(req.Context()); got != "" {
		t.Errorf("expected empty ID for bare context, got %q", got)
	}
}
