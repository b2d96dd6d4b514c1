package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerURL != "http://localhost:8080" {
		t.Errorf("Expected default server url, got %s", cfg.ServerURL)
	}
	if cfg.Cooldown != 2*time.Second {
		t.Errorf("Expected 2s cooldown, got %v", cfg.Cooldown)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("Expected 10s timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected info log level, got %s", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WORDLE_SERVER_URL", "https://wordle.example.com")
	t.Setenv("WORDLE_COOLDOWN", "500ms")
	t.Setenv("NGROK_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerURL != "https://wordle.example.com" {
		t.Errorf("Expected env server url, got %s", cfg.ServerURL)
	}
	if cfg.Cooldown != 500*time.Millisecond {
		t.Errorf("Expected 500ms cooldown, got %v", cfg.Cooldown)
	}
	if !cfg.NgrokEnabled {
		t.Error("Expected ngrok enabled")
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("WORDLE_COOLDOWN", "soon")

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("Expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{ServerURL: "http://localhost:8080", HTTPTimeout: time.Second, Cooldown: time.Second}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"https", func(c *Config) { c.ServerURL = "https://example.com/base" }, false},
		{"missing host", func(c *Config) { c.ServerURL = "localhost" }, true},
		{"websocket scheme", func(c *Config) { c.ServerURL = "ws://localhost:8080" }, true},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, true},
		{"negative cooldown", func(c *Config) { c.Cooldown = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordle.log")
	cfg := Config{LogLevel: "debug", LogFile: path}

	logger, err := cfg.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Debug("hello")
	logger.Sync()

	cfg.LogLevel = "loud"
	if _, err := cfg.NewLogger(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for bad level, got %v", err)
	}
}
