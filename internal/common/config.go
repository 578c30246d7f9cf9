package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Store    StoreConfig
	Database DatabaseConfig
	Scan     ScanConfig
}

// StoreConfig selects and tunes the key-value backend.
type StoreConfig struct {
	// Driver is one of "sqlite", "postgres" or "memory".
	Driver string
	// Path is the SQLite database file (sqlite driver only).
	Path string
}

// DatabaseConfig holds Postgres pool configuration (postgres driver only).
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ScanConfig holds workflow-related configuration
type ScanConfig struct {
	// HistoryMax caps the persisted scan history.
	HistoryMax int
	// ResultsWindow caps the transient on-screen result list.
	ResultsWindow int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", "sqlite"),
			Path:   getEnv("STORE_PATH", "boletos.db"),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Scan: ScanConfig{
			HistoryMax:    getEnvAsInt("HISTORY_MAX", 500),
			ResultsWindow: getEnvAsInt("RESULTS_WINDOW", 10),
		},
	}
}

// Helper functions for environment variable parsing
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

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			return NewAppError("CONFIG_ERROR", "STORE_PATH is required for the sqlite driver", ErrInvalidInput)
		}
	case "postgres":
		if c.Database.DSN == "" {
			return NewAppError("CONFIG_ERROR", "DB_URL is required for the postgres driver", ErrInvalidInput)
		}
	case "memory":
	default:
		return NewAppError("CONFIG_ERROR", "STORE_DRIVER must be sqlite, postgres or memory", ErrInvalidInput)
	}
	if c.Scan.HistoryMax <= 0 {
		return NewAppError("CONFIG_ERROR", "HISTORY_MAX must be positive", ErrInvalidInput)
	}
	if c.Scan.ResultsWindow <= 0 {
		return NewAppError("CONFIG_ERROR", "RESULTS_WINDOW must be positive", ErrInvalidInput)
	}
	return nil
}
