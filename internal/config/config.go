// Package config loads configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the trading backend.
type Config struct {
	// HTTP server
	Addr string

	// Marketplace API
	MarketplaceBaseURL string
	MarketplaceAPIKey  string

	// Database. Empty disables Postgres persistence; the trade log then stays
	// in memory.
	DatabaseURL string

	// Automation
	DefaultScanInterval time.Duration
}

// Load reads configuration with fallback to a .env file.
// Priority order: environment variables > .env file > defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:                getEnv("ADDR", ":8080"),
		MarketplaceBaseURL:  getEnv("MARKETPLACE_BASE_URL", "https://api.opensea.io"),
		MarketplaceAPIKey:   getEnv("MARKETPLACE_API_KEY", ""),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		DefaultScanInterval: time.Duration(getEnvInt("SCAN_INTERVAL_SECONDS", 60)) * time.Second,
	}
}

// MaskedAPIKey hides most of the marketplace key for startup logging.
func (c *Config) MaskedAPIKey() string {
	s := c.MarketplaceAPIKey
	if len(s) == 0 {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
