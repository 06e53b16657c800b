// Package config loads service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is the assembled service configuration.
type Config struct {
	Addr        string // HTTP listen address
	RedisURL    string // empty selects the in-memory document store
	SQLitePath  string // deck database path
	CatalogPath string // card catalog YAML path
	LogLevel    logrus.Level
	RNGSeed     int64 // 0 for time-based
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present; real environment
// variables win.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:        getenv("RUNETABLE_ADDR", ":8080"),
		RedisURL:    os.Getenv("RUNETABLE_REDIS_URL"),
		SQLitePath:  getenv("RUNETABLE_SQLITE_PATH", "runetable.db"),
		CatalogPath: getenv("RUNETABLE_CATALOG", "catalog.yaml"),
		LogLevel:    logrus.InfoLevel,
	}

	if raw := os.Getenv("RUNETABLE_LOG_LEVEL"); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("config: bad RUNETABLE_LOG_LEVEL %q: %w", raw, err)
		}
		cfg.LogLevel = level
	}
	if raw := os.Getenv("RUNETABLE_RNG_SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config: bad RUNETABLE_RNG_SEED %q: %w", raw, err)
		}
		cfg.RNGSeed = seed
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
