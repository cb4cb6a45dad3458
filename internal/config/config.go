// Package config loads the service's environment-variable configuration
// using koanf, layering env overrides on top of struct defaults the way
// the teacher's koanf.go does — trimmed to environment variables only,
// since this service names no config file format.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds every environment-variable option this service reads.
type Config struct {
	// DatabaseURL is the DuckDB connection string (a file path, or
	// ":memory:" for an ephemeral in-process database).
	DatabaseURL string `koanf:"database_url"`

	// ServerPort is the TCP port the HTTP server listens on.
	ServerPort int `koanf:"server_port"`

	// DatabasePoolMaxSize bounds the store's connection pool.
	DatabasePoolMaxSize int `koanf:"database_pool_max_size"`

	// BatchMaxInsertSize is the flusher's BatchMax trigger (C4).
	BatchMaxInsertSize int `koanf:"batch_max_insert_size"`

	// BatchInsertIntervalSecs is the flusher's BatchInterval trigger (C4).
	BatchInsertIntervalSecs int `koanf:"batch_insert_interval_secs"`

	// LoggerOutput selects the logging sink format: "json" or "console".
	LoggerOutput string `koanf:"logger_output"`

	// LogLevel is the minimum zerolog level: trace, debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
}

// BatchInterval returns BatchInsertIntervalSecs as a time.Duration.
func (c Config) BatchInterval() time.Duration {
	return time.Duration(c.BatchInsertIntervalSecs) * time.Second
}

func defaultConfig() Config {
	return Config{
		DatabaseURL:             "pessoas.duckdb",
		ServerPort:              80,
		DatabasePoolMaxSize:     256,
		BatchMaxInsertSize:      256,
		BatchInsertIntervalSecs: 1,
		LoggerOutput:            "json",
		LogLevel:                "info",
	}
}

// Load builds a Config from struct defaults overridden by environment
// variables, following the teacher's defaults-then-env koanf layering. The
// env vars are bare (DATABASE_URL, SERVER_PORT, ...), matching spec.md §6's
// compatibility contract and the original's env::var("DATABASE_URL")/
// env::var("SERVER_PORT") — no service-specific prefix.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}

	envProvider := env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("config: load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return Config{}, fmt.Errorf("config: server_port out of range: %d", cfg.ServerPort)
	}
	if cfg.DatabasePoolMaxSize <= 0 {
		return Config{}, fmt.Errorf("config: database_pool_max_size must be positive")
	}
	if cfg.BatchMaxInsertSize <= 0 {
		return Config{}, fmt.Errorf("config: batch_max_insert_size must be positive")
	}
	if cfg.BatchInsertIntervalSecs <= 0 {
		return Config{}, fmt.Errorf("config: batch_insert_interval_secs must be positive")
	}

	return cfg, nil
}
