package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Rate limiter storage; in-memory when empty
	RedisURL string

	// Redirect cache
	CacheDurationSeconds int
	CacheEnabled         bool

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Development helpers
	SeedDevRedirects bool // env: SEED_DEV_REDIRECTS
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:                  getEnv("ENV", "development"),
		ServerAddr:           getEnv("SERVER_ADDR", ":3000"),
		BaseURL:              getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL:          getEnv("DATABASE_URL", "postgres://localhost:5432/go301?sslmode=disable"),
		RedisURL:             getEnv("REDIS_URL", ""),
		CacheDurationSeconds: getEnvInt("CACHE_DURATION_SECONDS", 86400),
		CacheEnabled:         getEnv("CACHE_ENABLED", "true") != "false",
		CORSOrigins:          getEnv("CORS_ORIGINS", ""),
		SeedDevRedirects:     getEnv("SEED_DEV_REDIRECTS", "") != "",
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// CacheTTL returns the redirect cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheDurationSeconds) * time.Second
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
