package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sipico/ddns-endpoint/internal/testutil/mockcloudflare"
)

func TestGetPort(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		expected string
	}{
		{"default port when not set", "", "8081"},
		{"custom port 9000", "9000", "9000"},
		{"custom port 3000", "3000", "3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.port == "" {
				os.Unsetenv("PORT")
			} else {
				os.Setenv("PORT", tt.port)
			}
			defer os.Unsetenv("PORT")

			port := getPort()
			if port != tt.expected {
				t.Errorf("expected port %s, got %s", tt.expected, port)
			}
		})
	}
}

func TestGetPortAddr(t *testing.T) {
	tests := []struct {
		port     string
		expected string
	}{
		{"8081", ":8081"},
		{"9000", ":9000"},
	}

	for _, tt := range tests {
		t.Run(tt.port, func(t *testing.T) {
			addr := getPortAddr(tt.port)
			if addr != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, addr)
			}
		})
	}
}

func TestCreateHTTPServer(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpServer := createHTTPServer("8081", handler)

	if httpServer.Addr != ":8081" {
		t.Errorf("expected Addr to be :8081, got %s", httpServer.Addr)
	}
	if httpServer.Handler == nil {
		t.Error("expected Handler to be non-nil")
	}
}

func TestVerifyEndpointServesHealthCheck(t *testing.T) {
	// The health check subcommand probes /user/tokens/verify, which must
	// return 200 when no token requirement is configured.
	server := mockcloudflare.New()
	defer server.Close()

	req := httptest.NewRequest(http.MethodGet, "/user/tokens/verify", nil)
	w := httptest.NewRecorder()

	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestDoHealthCheck(t *testing.T) {
	server := mockcloudflare.New()
	defer server.Close()

	if code := doHealthCheck(server.URL() + "/user/tokens/verify"); code != 0 {
		t.Errorf("expected health check to pass, got exit code %d", code)
	}
	if code := doHealthCheck(server.URL() + "/nope"); code != 1 {
		t.Errorf("expected health check to fail for unknown path, got %d", code)
	}
	if code := doHealthCheck("http://localhost:0/unreachable"); code != 1 {
		t.Errorf("expected health check to fail for unreachable server, got %d", code)
	}
}

func TestSetupShutdownHandler(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpServer := createHTTPServer("8081", handler)
	done := setupShutdownHandler(httpServer)

	if done == nil {
		t.Error("expected setupShutdownHandler to return a non-nil channel")
	}

	select {
	case <-done:
		t.Error("expected done channel to be empty initially")
	default:
	}
}
