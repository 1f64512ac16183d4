// Package config loads runtime settings from an optional YAML file, a .env file
// and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Environment variables that override file settings.
const (
	EnvStorage        = "DAILYSPLIT_STORAGE"
	EnvDBPath         = "DB_PATH"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvLogLevel       = "LOG_LEVEL"
	EnvReportDir      = "REPORT_DIR"
	EnvReportCurrency = "REPORT_CURRENCY"
	EnvMetricsFile    = "METRICS_FILE"
)

// DotEnvFile is read from the working directory when present.
var DotEnvFile = ".env"

// Config holds all configuration details.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Report  ReportConfig  `yaml:"report"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StorageConfig selects and locates the key-value store.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"` // sqlite file
	URL     string `yaml:"url"`  // postgres connection string
}

// LogConfig sets the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

// ReportConfig controls exported settlement documents.
type ReportConfig struct {
	Dir      string `yaml:"dir"`
	Currency string `yaml:"currency"`
}

// MetricsConfig names the textfile metrics are dumped to after each command.
// Empty disables the dump.
type MetricsConfig struct {
	File string `yaml:"file"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    "./data/dailysplit.db",
		},
		Log:    LogConfig{Level: "info"},
		Report: ReportConfig{Dir: ".", Currency: "UZS"},
	}
}

// Load builds the configuration. path may be empty, in which case only defaults,
// .env and the environment are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		slog.Debug("Config file loaded", "path", path)
	}

	dotenv, err := godotenv.Read(DotEnvFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		dotenv = nil
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", DotEnvFile, err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}

	override := func(dst *string, key string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	override(&cfg.Storage.Backend, EnvStorage)
	override(&cfg.Storage.Path, EnvDBPath)
	override(&cfg.Storage.URL, EnvDatabaseURL)
	override(&cfg.Log.Level, EnvLogLevel)
	override(&cfg.Report.Dir, EnvReportDir)
	override(&cfg.Report.Currency, EnvReportCurrency)
	override(&cfg.Metrics.File, EnvMetricsFile)

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend is fully configured.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.Storage.URL == "" {
			return fmt.Errorf("storage.url (or %s) is required for the postgres backend", EnvDatabaseURL)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}
