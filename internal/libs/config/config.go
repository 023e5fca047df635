// Package config provides application configuration management from environment variables
// and the picker's TOML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	DatabaseURL         string
	DatasetPath         string
	APIPort             string
	APIHost             string
	LogLevel            string
	SearchIncludeDomain bool
	// ExportInterval is how often the worker re-exports users; zero exports once
	ExportInterval time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	includeDomain, err := getEnvBool("SEARCH_INCLUDE_DOMAIN", true)
	if err != nil {
		return nil, err
	}

	exportInterval, err := getEnvDuration("EXPORT_INTERVAL", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DatasetPath:         getEnv("DATASET_PATH", "./data/users.json"),
		APIPort:             getEnv("API_PORT", "8080"),
		APIHost:             getEnv("API_HOST", "0.0.0.0"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		SearchIncludeDomain: includeDomain,
		ExportInterval:      exportInterval,
	}

	if cfg.DatabaseURL == "" && cfg.DatasetPath == "" {
		return nil, fmt.Errorf("DATABASE_URL or DATASET_PATH is required")
	}

	return cfg, nil
}

// UsePostgres reports whether users load from Postgres instead of the dataset file
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, value)
	}
	return d, nil
}
