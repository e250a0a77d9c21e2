/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
)

// Database backend selection.
type DatabaseBackend string

const (
	DatabasePostgres DatabaseBackend = "postgres"
	DatabaseMySQL    DatabaseBackend = "mysql"
	DatabaseSQLite   DatabaseBackend = "sqlite"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int
	MetricsBind string
	DBBackend   DatabaseBackend
	DBDSN       string

	// Block engine configuration
	BlockConfigPath string // BRAGI_BLOCK_CONFIG — path to the block rules YAML
	Timezone        string // BRAGI_TIMEZONE — station IANA timezone
	DayStartHour    int    // BRAGI_DAY_START_HOUR — hour the schedule day begins
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:     getEnv("BRAGI_ENV", "development"),
		HTTPBind:        getEnv("BRAGI_HTTP_BIND", "0.0.0.0"),
		HTTPPort:        getEnvInt("BRAGI_HTTP_PORT", 8080),
		MetricsBind:     getEnv("BRAGI_METRICS_BIND", "127.0.0.1:9000"),
		DBBackend:       DatabaseBackend(getEnv("BRAGI_DB_BACKEND", string(DatabaseSQLite))),
		DBDSN:           getEnv("BRAGI_DB_DSN", "bragi.db"),
		BlockConfigPath: getEnv("BRAGI_BLOCK_CONFIG", "blocks.yaml"),
		Timezone:        getEnv("BRAGI_TIMEZONE", "Europe/London"),
		DayStartHour:    getEnvInt("BRAGI_DAY_START_HOUR", 7),
	}

	switch cfg.DBBackend {
	case DatabasePostgres, DatabaseMySQL, DatabaseSQLite:
	default:
		return nil, fmt.Errorf("unknown database backend %q", cfg.DBBackend)
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("BRAGI_DB_DSN is required")
	}
	if cfg.BlockConfigPath == "" {
		return nil, fmt.Errorf("BRAGI_BLOCK_CONFIG is required")
	}
	if cfg.DayStartHour < 0 || cfg.DayStartHour > 23 {
		return nil, fmt.Errorf("BRAGI_DAY_START_HOUR %d out of range", cfg.DayStartHour)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("BRAGI_HTTP_PORT %d out of range", cfg.HTTPPort)
	}
	if cfg.MetricsBind == "" {
		return nil, fmt.Errorf("BRAGI_METRICS_BIND is required")
	}

	if cfg.Environment == "production" && cfg.DBBackend == DatabaseSQLite && cfg.DBDSN == "bragi.db" {
		return nil, fmt.Errorf("production requires an explicit BRAGI_DB_DSN")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
