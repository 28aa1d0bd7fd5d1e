// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/utils"
)

// Config holds application configuration
type Config struct {
	DataDir              string // Directory holding the cache database (always absolute)
	LogLevel             string
	Port                 int
	DevMode              bool
	DefaultFormat        backend.Format // Used when a request names no format
	CacheEnabled         bool
	CacheTTL             time.Duration
	CacheCleanupSchedule string   // cron spec for purging expired cache entries
	CORSOrigins          []string // Origins allowed by the HTTP API
}

// scheduleParser accepts the same specs as the job scheduler: six fields
// with seconds, or a descriptor such as "@every 10m".
var scheduleParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	absDataDir, err := filepath.Abs(getEnv("QREP_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:              absDataDir,
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		Port:                 getEnvAsInt("QREP_PORT", 8010),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		DefaultFormat:        backend.Format(getEnv("QREP_DEFAULT_FORMAT", string(backend.Symbolic))),
		CacheEnabled:         getEnvAsBool("QREP_CACHE_ENABLED", true),
		CacheTTL:             time.Duration(getEnvAsInt("QREP_CACHE_TTL", 3600)) * time.Second,
		CacheCleanupSchedule: getEnv("QREP_CACHE_CLEANUP_SCHEDULE", "@every 10m"),
		CORSOrigins:          utils.ParseCSV(getEnv("QREP_CORS_ORIGINS", "*")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// CachePath returns the location of the result cache database.
func (c *Config) CachePath() string {
	return filepath.Join(c.DataDir, "cache.db")
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := backend.ParseFormat(string(c.DefaultFormat)); err != nil {
		return fmt.Errorf("invalid default format: %w", err)
	}
	if c.CacheEnabled {
		if c.CacheTTL <= 0 {
			return fmt.Errorf("cache TTL must be positive, got %s", c.CacheTTL)
		}
		if _, err := scheduleParser.Parse(c.CacheCleanupSchedule); err != nil {
			return fmt.Errorf("invalid cache cleanup schedule %q: %w", c.CacheCleanupSchedule, err)
		}
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
