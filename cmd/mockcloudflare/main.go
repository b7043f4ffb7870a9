// Package main implements a standalone mock Cloudflare API server for E2E testing.
package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sipico/ddns-endpoint/internal/testutil/mockcloudflare"
)

// getPort returns the port from the PORT environment variable or the default.
func getPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	return port
}

// getPortAddr formats the port into a server address.
func getPortAddr(port string) string {
	return ":" + port
}

// createHTTPServer creates an http.Server with the given port and handler.
func createHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:    getPortAddr(port),
		Handler: handler,
	}
}

// setupShutdownHandler sets up graceful shutdown handling.
func setupShutdownHandler(httpServer *http.Server) <-chan bool {
	done := make(chan bool)
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down mockcloudflare server...")
		//nolint:errcheck
		httpServer.Close()
		close(done)
	}()
	return done
}

// runHealthCheck performs an HTTP health check against the local server.
// Returns 0 on success, 1 on failure. Used by container HEALTHCHECK.
func runHealthCheck() int {
	port := getPort()
	return doHealthCheck("http://localhost:" + port + "/user/tokens/verify")
}

// doHealthCheck performs the actual health check HTTP request.
// Extracted for testability.
func doHealthCheck(url string) int {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return 1
	}
	//nolint:errcheck // Response body close errors are unrecoverable in health check
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 1
	}
	return 0
}

func main() {
	// Handle health check subcommand for distroless container health checks
	if len(os.Args) > 1 && os.Args[1] == "health" {
		os.Exit(runHealthCheck())
	}

	port := getPort()
	server := mockcloudflare.New()
	defer server.Close()

	if token := os.Getenv("API_TOKEN"); token != "" {
		server.SetToken(token)
	}

	// Create a standalone HTTP server (not httptest)
	httpServer := createHTTPServer(port, server.Handler())

	// Graceful shutdown
	done := setupShutdownHandler(httpServer)

	log.Printf("mockcloudflare listening on :%s", port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}

	<-done
	log.Println("mockcloudflare stopped")
}
