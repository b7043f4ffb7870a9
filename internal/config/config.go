// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
// It is constructed once in main and passed by reference; nothing reads
// configuration ambiently.
type Config struct {
	LogLevel          string `yaml:"log_level"`           // debug, info, warn, error
	ListenAddr        string `yaml:"listen_addr"`         // Server listen address (e.g., ":8080")
	MetricsListenAddr string `yaml:"metrics_listen_addr"` // Metrics listener address (e.g., "localhost:9090")
	DatabasePath      string `yaml:"database_path"`       // SQLite database path
	CloudflareAPIURL  string `yaml:"cloudflare_api_url"`  // Optional: base URL for the Cloudflare API (empty = default)
	CloudflareToken   string `yaml:"cloudflare_token"`    // Required: bearer token for the Cloudflare API
	ZoneID            string `yaml:"zone_id"`             // Required: Cloudflare zone the A records live in
	RecordTTL         int    `yaml:"record_ttl"`          // TTL in seconds for managed records
}

// Load parses configuration from an optional YAML file (CONFIG_FILE) with
// environment variables taking precedence. All optional fields have
// defaults for ease of deployment.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment overrides
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.MetricsListenAddr, "METRICS_LISTEN_ADDR")
	setString(&cfg.DatabasePath, "DATABASE_PATH")
	setString(&cfg.CloudflareAPIURL, "CLOUDFLARE_API_URL")
	setString(&cfg.CloudflareToken, "CLOUDFLARE_API_TOKEN")
	setString(&cfg.ZoneID, "CLOUDFLARE_ZONE_ID")
	if v := os.Getenv("RECORD_TTL"); v != "" {
		ttl, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RECORD_TTL %q: %w", v, err)
		}
		cfg.RecordTTL = ttl
	}

	// Defaults for optional fields
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.MetricsListenAddr == "" {
		cfg.MetricsListenAddr = "localhost:9090"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "/data/ddns.db"
	}
	if cfg.RecordTTL == 0 {
		cfg.RecordTTL = 120
	}

	return cfg, nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// Validate checks all configuration constraints.
func (c *Config) Validate() error {
	if c.CloudflareToken == "" {
		return fmt.Errorf("CLOUDFLARE_API_TOKEN is required")
	}
	if c.ZoneID == "" {
		return fmt.Errorf("CLOUDFLARE_ZONE_ID is required")
	}
	if c.RecordTTL < 0 {
		return fmt.Errorf("record_ttl must not be negative")
	}
	return nil
}
