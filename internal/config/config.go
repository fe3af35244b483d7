// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Storage
	DataDir        string
	ExportDir      string
	PriceTablePath string

	// Server
	Port    int
	DevMode bool

	// Logging
	LogLevel string

	// Background jobs (cron expressions)
	SnapshotSchedule    string
	MaintenanceSchedule string
}

// Load reads configuration from environment variables, with a best-effort
// .env file load first
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	dataDir := getEnv("STOCKFOLIO_DATA_DIR", "./data")

	cfg := &Config{
		DataDir:        dataDir,
		ExportDir:      getEnv("STOCKFOLIO_EXPORT_DIR", filepath.Join(dataDir, "exports")),
		PriceTablePath: getEnv("STOCKFOLIO_PRICE_TABLE", ""),

		Port:    getEnvAsInt("STOCKFOLIO_PORT", 8090),
		DevMode: getEnvAsBool("DEV_MODE", false),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		SnapshotSchedule:    getEnv("SNAPSHOT_SCHEDULE", "0 * * * *"),
		MaintenanceSchedule: getEnv("MAINTENANCE_SCHEDULE", "30 3 * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for obvious mistakes
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("STOCKFOLIO_DATA_DIR must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("STOCKFOLIO_PORT must be between 1 and 65535, got %d", c.Port)
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.LogLevel)
	}
	return nil
}

// DatabasePath returns the ledger database file path under the data directory
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "stockfolio.db")
}

// getEnv retrieves an environment variable with a fallback
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer with a fallback
func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvAsBool retrieves an environment variable as a boolean with a fallback
func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
