// Package config loads application configuration from environment variables.
// All variables use the TUTOR_ prefix.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	App     AppConfig
	Assets  AssetsConfig
	Cache   CacheConfig
	Session SessionConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// AppConfig holds site-wide presentation settings.
type AppConfig struct {
	Name string // suffix of every page title
}

// AssetsConfig selects where tutorial assets are read from.
type AssetsConfig struct {
	Source  string // "fs" or "redis"
	Dir     string
	BaseURL string // URL prefix of content paths
	Watch   bool   // re-resolve open tutorials when files change (fs only)
}

// CacheConfig holds Dragonfly/Redis connection settings for the redis asset source.
type CacheConfig struct {
	URL       string
	KeyPrefix string
}

// SessionConfig holds browser session settings.
type SessionConfig struct {
	TTL          time.Duration
	SecureCookie bool // mark the session cookie Secure (HTTPS deployments)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// LoadDotEnv reads a .env file into the environment if one exists.
// Variables already set take precedence.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables with TUTOR_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("TUTOR_SERVER_PORT", 8080),
			Host: envStr("TUTOR_SERVER_HOST", "0.0.0.0"),
		},
		App: AppConfig{
			Name: envStr("TUTOR_APP_NAME", "Tutorials"),
		},
		Assets: AssetsConfig{
			Source:  envStr("TUTOR_ASSETS_SOURCE", "fs"),
			Dir:     envStr("TUTOR_ASSETS_DIR", "./assets"),
			BaseURL: strings.TrimSuffix(envStr("TUTOR_ASSETS_BASE_URL", "/assets"), "/"),
			Watch:   envBool("TUTOR_WATCH", false),
		},
		Cache: CacheConfig{
			URL:       envStr("TUTOR_CACHE_URL", "redis://localhost:6379"),
			KeyPrefix: envStr("TUTOR_CACHE_KEY_PREFIX", "tutor:assets:"),
		},
		Session: SessionConfig{
			TTL:          envDuration("TUTOR_SESSION_TTL", 30*time.Minute),
			SecureCookie: envBool("TUTOR_SESSION_SECURE_COOKIE", false),
		},
		Log: LogConfig{
			Level:  envStr("TUTOR_LOG_LEVEL", "info"),
			Format: envStr("TUTOR_LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("TUTOR_SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Assets.Source {
	case "fs":
		if c.Assets.Dir == "" {
			return fmt.Errorf("TUTOR_ASSETS_DIR is required when TUTOR_ASSETS_SOURCE=fs")
		}
	case "redis":
		if c.Cache.URL == "" {
			return fmt.Errorf("TUTOR_CACHE_URL is required when TUTOR_ASSETS_SOURCE=redis")
		}
		if c.Assets.Watch {
			return fmt.Errorf("TUTOR_WATCH is only supported with TUTOR_ASSETS_SOURCE=fs")
		}
	default:
		return fmt.Errorf("TUTOR_ASSETS_SOURCE must be 'fs' or 'redis', got %q", c.Assets.Source)
	}

	if !strings.HasPrefix(c.Assets.BaseURL, "/") {
		return fmt.Errorf("TUTOR_ASSETS_BASE_URL must start with '/', got %q", c.Assets.BaseURL)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("TUTOR_SESSION_TTL must be positive")
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("TUTOR_LOG_FORMAT must be 'json' or 'text', got %q", c.Log.Format)
	}

	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
