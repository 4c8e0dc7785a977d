package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv unsets all TUTOR_ environment variables for a clean test.
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"TUTOR_SERVER_PORT",
		"TUTOR_SERVER_HOST",
		"TUTOR_APP_NAME",
		"TUTOR_ASSETS_SOURCE",
		"TUTOR_ASSETS_DIR",
		"TUTOR_ASSETS_BASE_URL",
		"TUTOR_WATCH",
		"TUTOR_CACHE_URL",
		"TUTOR_CACHE_KEY_PREFIX",
		"TUTOR_SESSION_TTL",
		"TUTOR_SESSION_SECURE_COOKIE",
		"TUTOR_LOG_LEVEL",
		"TUTOR_LOG_FORMAT",
	}
	for _, v := range envVars {
		// Setenv registers a cleanup that restores the original value.
		t.Setenv(v, "")
		_ = os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.App.Name != "Tutorials" {
		t.Errorf("App.Name = %q, want Tutorials", cfg.App.Name)
	}
	if cfg.Assets.Source != "fs" {
		t.Errorf("Assets.Source = %q, want fs", cfg.Assets.Source)
	}
	if cfg.Assets.Dir != "./assets" {
		t.Errorf("Assets.Dir = %q, want ./assets", cfg.Assets.Dir)
	}
	if cfg.Assets.BaseURL != "/assets" {
		t.Errorf("Assets.BaseURL = %q, want /assets", cfg.Assets.BaseURL)
	}
	if cfg.Assets.Watch {
		t.Error("Assets.Watch should default to false")
	}
	if cfg.Cache.URL != "redis://localhost:6379" {
		t.Errorf("Cache.URL = %q, want redis://localhost:6379", cfg.Cache.URL)
	}
	if cfg.Cache.KeyPrefix != "tutor:assets:" {
		t.Errorf("Cache.KeyPrefix = %q, want tutor:assets:", cfg.Cache.KeyPrefix)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("Session.TTL = %v, want 30m", cfg.Session.TTL)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("TUTOR_SERVER_PORT", "9090")
	t.Setenv("TUTOR_APP_NAME", "Code Academy")
	t.Setenv("TUTOR_ASSETS_SOURCE", "redis")
	t.Setenv("TUTOR_ASSETS_BASE_URL", "/static/")
	t.Setenv("TUTOR_CACHE_URL", "redis://cache:6379/2")
	t.Setenv("TUTOR_SESSION_TTL", "5m")
	t.Setenv("TUTOR_SESSION_SECURE_COOKIE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.App.Name != "Code Academy" {
		t.Errorf("App.Name = %q, want Code Academy", cfg.App.Name)
	}
	if cfg.Assets.Source != "redis" {
		t.Errorf("Assets.Source = %q, want redis", cfg.Assets.Source)
	}
	if cfg.Assets.BaseURL != "/static" {
		t.Errorf("Assets.BaseURL = %q, want /static (trailing slash trimmed)", cfg.Assets.BaseURL)
	}
	if cfg.Cache.URL != "redis://cache:6379/2" {
		t.Errorf("Cache.URL = %q, want redis://cache:6379/2", cfg.Cache.URL)
	}
	if cfg.Session.TTL != 5*time.Minute {
		t.Errorf("Session.TTL = %v, want 5m", cfg.Session.TTL)
	}
	if !cfg.Session.SecureCookie {
		t.Error("Session.SecureCookie should be true")
	}
	if cfg.Addr() != "0.0.0.0:9090" {
		t.Errorf("Addr() = %q, want 0.0.0.0:9090", cfg.Addr())
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("TUTOR_SERVER_PORT", "eighty")
	t.Setenv("TUTOR_SESSION_TTL", "forever")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want fallback 8080", cfg.Server.Port)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("Session.TTL = %v, want fallback 30m", cfg.Session.TTL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"defaults", nil, false},
		{"redis source", map[string]string{"TUTOR_ASSETS_SOURCE": "redis"}, false},
		{"unknown source", map[string]string{"TUTOR_ASSETS_SOURCE": "s3"}, true},
		{"watch with redis", map[string]string{"TUTOR_ASSETS_SOURCE": "redis", "TUTOR_WATCH": "true"}, true},
		{"relative base url", map[string]string{"TUTOR_ASSETS_BASE_URL": "assets"}, true},
		{"bad port", map[string]string{"TUTOR_SERVER_PORT": "70000"}, true},
		{"zero ttl", map[string]string{"TUTOR_SESSION_TTL": "0s"}, true},
		{"text log format", map[string]string{"TUTOR_LOG_FORMAT": "text"}, false},
		{"bad log format", map[string]string{"TUTOR_LOG_FORMAT": "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWatchParsing(t *testing.T) {
	tests := []struct {
		name string
		val  string
		want bool
	}{
		{"true", "true", true},
		{"TRUE", "TRUE", true},
		{"false", "false", false},
		{"1", "1", true},
		{"0", "0", false},
		{"empty", "", false},
		{"invalid", "notabool", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if tt.val != "" {
				t.Setenv("TUTOR_WATCH", tt.val)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Assets.Watch != tt.want {
				t.Errorf("Assets.Watch = %v, want %v", cfg.Assets.Watch, tt.want)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TUTOR_APP_NAME=From Dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Name != "From Dotenv" {
		t.Errorf("App.Name = %q, want From Dotenv", cfg.App.Name)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("LoadDotEnv() error = %v, want nil for missing file", err)
	}
}
