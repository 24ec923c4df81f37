// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache). An empty host disables the L2
	// render cache.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// RegistryFile is an optional YAML file of extra module descriptors.
	RegistryFile string

	// Converter and renderer bounds. Zero selects the package default.
	ConvertMaxNodes int
	RenderMaxDepth  int

	// RenderCacheTTL is how long published output stays in Valkey.
	RenderCacheTTL time.Duration
	// RenderCacheEntries bounds the in-process render cache. Zero selects
	// the engine default.
	RenderCacheEntries int

	// ConvertRateLimit is the number of /api/convert requests allowed per
	// client and minute.
	ConvertRateLimit int
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if a numeric value
// does not parse or if critical values are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "pagecraft"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "pagecraft"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		RegistryFile: os.Getenv("REGISTRY_FILE"),
	}

	var err error
	if cfg.ConvertMaxNodes, err = envInt("CONVERT_MAX_NODES", 0); err != nil {
		return nil, err
	}
	if cfg.RenderMaxDepth, err = envInt("RENDER_MAX_DEPTH", 0); err != nil {
		return nil, err
	}
	if cfg.ConvertRateLimit, err = envInt("CONVERT_RATE_LIMIT", 30); err != nil {
		return nil, err
	}
	if cfg.RenderCacheEntries, err = envInt("RENDER_CACHE_ENTRIES", 0); err != nil {
		return nil, err
	}
	if cfg.RenderCacheTTL, err = envDuration("RENDER_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt reads a non-negative integer, returning fallback if unset or empty.
func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}

// envDuration reads a positive duration such as "90s" or "5m".
func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}
