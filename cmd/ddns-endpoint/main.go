// Package main provides the entry point for the DDNS endpoint server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sipico/ddns-endpoint/internal/cloudflare"
	"github.com/sipico/ddns-endpoint/internal/config"
	"github.com/sipico/ddns-endpoint/internal/metrics"
	"github.com/sipico/ddns-endpoint/internal/server"
	"github.com/sipico/ddns-endpoint/internal/storage"
	"github.com/sipico/ddns-endpoint/internal/updater"
)

const version = "1.0.0"

// parseLogLevel maps the configured level name to a slog level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger creates the process-wide structured logger.
func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

// newDNSClient builds the Cloudflare client from configuration.
func newDNSClient(cfg *config.Config) *cloudflare.Client {
	opts := []cloudflare.Option{cloudflare.WithRecordTTL(cfg.RecordTTL)}
	if cfg.CloudflareAPIURL != "" {
		opts = append(opts, cloudflare.WithBaseURL(cfg.CloudflareAPIURL))
	}
	return cloudflare.NewClient(cfg.CloudflareToken, cfg.ZoneID, opts...)
}

// startMetricsServer serves Prometheus metrics on its own listener so the
// public endpoint never exposes them.
func startMetricsServer(addr string, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		logger.Info("metrics listener starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics listener failed", "error", err)
		}
	}()
	return srv
}

// setupShutdownHandler shuts the servers down on SIGINT/SIGTERM.
func setupShutdownHandler(logger *slog.Logger, servers ...*http.Server) <-chan bool {
	done := make(chan bool)
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, srv := range servers {
			//nolint:errcheck
			srv.Shutdown(ctx)
		}
		close(done)
	}()
	return done
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := metrics.Init(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "error", err, "path", cfg.DatabasePath)
		os.Exit(1)
	}
	defer func() {
		//nolint:errcheck
		store.Close()
	}()

	dns := newDNSClient(cfg)

	// Surface a bad token at startup instead of on the first update.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := dns.VerifyToken(ctx); err != nil {
		logger.Warn("cloudflare token verification failed", "error", err)
	}
	cancel()

	u := updater.New(store, dns, logger)
	handler := server.NewHandler(u, store, logger)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.NewRouter(handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsServer := startMetricsServer(cfg.MetricsListenAddr, logger)

	done := setupShutdownHandler(logger, httpServer, metricsServer)

	logger.Info("ddns endpoint starting", "version", version, "addr", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	<-done
	logger.Info("ddns endpoint stopped")
}
