package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv unsets every variable Load reads, restoring them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "LOG_LEVEL", "LISTEN_ADDR", "METRICS_LISTEN_ADDR",
		"DATABASE_PATH", "CLOUDFLARE_API_URL", "CLOUDFLARE_API_TOKEN",
		"CLOUDFLARE_ZONE_ID", "RECORD_TTL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected default listen addr :8080, got %q", cfg.ListenAddr)
	}
	if cfg.MetricsListenAddr != "localhost:9090" {
		t.Errorf("expected default metrics addr, got %q", cfg.MetricsListenAddr)
	}
	if cfg.DatabasePath != "/data/ddns.db" {
		t.Errorf("expected default database path, got %q", cfg.DatabasePath)
	}
	if cfg.RecordTTL != 120 {
		t.Errorf("expected default record TTL 120, got %d", cfg.RecordTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("CLOUDFLARE_API_TOKEN", "tok")
	t.Setenv("CLOUDFLARE_ZONE_ID", "zone123")
	t.Setenv("RECORD_TTL", "300")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ListenAddr != ":9999" {
		t.Errorf("expected env listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.CloudflareToken != "tok" {
		t.Errorf("expected env token, got %q", cfg.CloudflareToken)
	}
	if cfg.ZoneID != "zone123" {
		t.Errorf("expected env zone id, got %q", cfg.ZoneID)
	}
	if cfg.RecordTTL != 300 {
		t.Errorf("expected env record TTL, got %d", cfg.RecordTTL)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("listen_addr: \":7070\"\ncloudflare_token: file-token\nzone_id: file-zone\nrecord_ttl: 60\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	// Env still beats file
	t.Setenv("CLOUDFLARE_ZONE_ID", "env-zone")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ListenAddr != ":7070" {
		t.Errorf("expected file listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.CloudflareToken != "file-token" {
		t.Errorf("expected file token, got %q", cfg.CloudflareToken)
	}
	if cfg.ZoneID != "env-zone" {
		t.Errorf("expected env to override file zone, got %q", cfg.ZoneID)
	}
	if cfg.RecordTTL != 60 {
		t.Errorf("expected file record TTL, got %d", cfg.RecordTTL)
	}
}

func TestLoad_InvalidTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECORD_TTL", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid RECORD_TTL")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{CloudflareToken: "t", ZoneID: "z", RecordTTL: 120}, false},
		{"missing token", Config{ZoneID: "z", RecordTTL: 120}, true},
		{"missing zone", Config{CloudflareToken: "t", RecordTTL: 120}, true},
		{"negative ttl", Config{CloudflareToken: "t", ZoneID: "z", RecordTTL: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
