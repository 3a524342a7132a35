// catalog-service/internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is used when no path is given on the command line or in
// CATALOG_SERVICE_CONFIG.
const ConfigPath = "config.yaml"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	HTTPPort        string        `yaml:"httpPort"`
	GRPCPort        string        `yaml:"grpcPort"`
	DatabaseDriver  string        `yaml:"databaseDriver"`
	DatabaseURL     string        `yaml:"databaseURL"`
	LogLevel        string        `yaml:"logLevel"`
	AutoMigrate     bool          `yaml:"autoMigrate"`
	DefaultPageSize int           `yaml:"defaultPageSize"`
	MaxPageSize     int           `yaml:"maxPageSize"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	// RateLimitPerMinute caps /api requests per client IP; 0 disables it.
	RateLimitPerMinute int `yaml:"rateLimitPerMinute"`
}

// Defaults returns the configuration used for keys absent from the file.
func Defaults() FileConfig {
	return FileConfig{
		HTTPPort:        "8081",
		GRPCPort:        "9092",
		DatabaseDriver:  DriverPostgres,
		LogLevel:        "info",
		DefaultPageSize: 20,
		MaxPageSize:     100,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads config from path. An empty path falls back to
// CATALOG_SERVICE_CONFIG and then ConfigPath; only the last may be missing.
func Load(path string) (FileConfig, error) {
	cfg := Defaults()
	explicit := true
	if path == "" {
		path = os.Getenv("CATALOG_SERVICE_CONFIG")
	}
	if path == "" {
		path = ConfigPath
		explicit = false
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	// Override with environment variables
	if v := os.Getenv("CATALOG_SERVICE_DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("CATALOG_SERVICE_DATABASE_DRIVER"); v != "" {
		cfg.DatabaseDriver = v
	}
	if v := os.Getenv("CATALOG_SERVICE_HTTP_PORT"); v != "" {
		cfg.HTTPPort = v
	}
	if v := os.Getenv("CATALOG_SERVICE_GRPC_PORT"); v != "" {
		cfg.GRPCPort = v
	}
	if v := os.Getenv("CATALOG_SERVICE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CATALOG_SERVICE_AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("config: CATALOG_SERVICE_AUTO_MIGRATE must be a boolean, got %q", v)
		}
		cfg.AutoMigrate = b
	}
	if v := os.Getenv("CATALOG_SERVICE_RATE_LIMIT_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("config: CATALOG_SERVICE_RATE_LIMIT_PER_MINUTE must be an integer, got %q", v)
		}
		cfg.RateLimitPerMinute = n
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.HTTPPort == "" {
		return errors.New("config: httpPort is required (set in config.yaml)")
	}
	if cfg.GRPCPort == "" {
		return errors.New("config: grpcPort is required (set in config.yaml)")
	}
	switch cfg.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("config: databaseURL is required for driver %q (set in config.yaml or CATALOG_SERVICE_DATABASE_URL)", cfg.DatabaseDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown databaseDriver %q", cfg.DatabaseDriver)
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.DefaultPageSize <= 0 || cfg.MaxPageSize <= 0 {
		return errors.New("config: defaultPageSize and maxPageSize must be positive")
	}
	if cfg.DefaultPageSize > cfg.MaxPageSize {
		return fmt.Errorf("config: defaultPageSize %d exceeds maxPageSize %d", cfg.DefaultPageSize, cfg.MaxPageSize)
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("config: shutdownTimeout must be positive")
	}
	if cfg.RateLimitPerMinute < 0 {
		return errors.New("config: rateLimitPerMinute must not be negative")
	}
	return nil
}

// ParseLogLevel maps a config level name to a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("config: unknown logLevel %q", level)
	}
}
