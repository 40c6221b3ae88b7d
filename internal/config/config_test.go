package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PDBHL_CONFIG", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8090" {
		t.Errorf("expected port %q, got %q", "8090", cfg.Port)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("expected max upload %d, got %d", 10<<20, cfg.MaxUploadBytes)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Workers)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("expected read timeout 30s, got %s", cfg.ReadTimeout)
	}
	if cfg.Title != "PDB highlighting" {
		t.Errorf("expected title %q, got %q", "PDB highlighting", cfg.Title)
	}
	if !cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PDBHL_CONFIG", "")
	t.Setenv("PDBHL_PORT", "9000")
	t.Setenv("PDBHL_API_KEY", "secret")
	t.Setenv("PDBHL_WORKERS", "8")
	t.Setenv("PDBHL_WRITE_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("expected port %q, got %q", "9000", cfg.Port)
	}
	if cfg.APIKey != "secret" {
		t.Errorf("expected api key %q, got %q", "secret", cfg.APIKey)
	}
	if cfg.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Workers)
	}
	if cfg.WriteTimeout != 5*time.Second {
		t.Errorf("expected write timeout 5s, got %s", cfg.WriteTimeout)
	}
}

func TestLoad_NonPositiveClamped(t *testing.T) {
	t.Setenv("PDBHL_CONFIG", "")
	t.Setenv("PDBHL_WORKERS", "0")
	t.Setenv("PDBHL_PARALLEL_LINE_THRESHOLD", "-3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected workers clamped to 4, got %d", cfg.Workers)
	}
	if cfg.ParallelLineThreshold != 5000 {
		t.Errorf("expected threshold clamped to 5000, got %d", cfg.ParallelLineThreshold)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdbhl.toml")
	body := "port = \"7070\"\nbrand = \"Atoms\"\nmax_text_bytes = 1024\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PDBHL_CONFIG", path)
	t.Setenv("PDBHL_BRAND", "From env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("expected port from file %q, got %q", "7070", cfg.Port)
	}
	if cfg.MaxTextBytes != 1024 {
		t.Errorf("expected max text bytes 1024, got %d", cfg.MaxTextBytes)
	}
	if cfg.Brand != "From env" {
		t.Errorf("expected env to override file, got %q", cfg.Brand)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("PDBHL_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	base := Config{Port: "8090", MaxUploadBytes: 100, MaxTextBytes: 50}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(c *Config) {}, ""},
		{"empty port", func(c *Config) { c.Port = "" }, "port is required"},
		{"bad port", func(c *Config) { c.Port = "http" }, "invalid port"},
		{"port range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"text over upload", func(c *Config) { c.MaxTextBytes = 200 }, "exceeds"},
	}
	for _, tt := range tests {
		c := base
		tt.mutate(&c)
		err := c.Validate()
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: expected error containing %q, got %v", tt.name, tt.wantErr, err)
		}
	}
}
