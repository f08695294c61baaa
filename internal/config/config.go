// Package config loads satman settings: built-in defaults, then an optional
// YAML file, then SATMAN_* environment variables. Command-line flags are
// applied on top by the cli package.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"

	"github.com/roach88/satman/internal/record"
	"github.com/roach88/satman/internal/validate"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SATMAN_"

// DefaultDataFile is the data file used when none is configured.
const DefaultDataFile = "sat_data.json"

// ValidLogLevels defines the allowed log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Config holds all settings for a satman session.
type Config struct {
	DataFile        string  `yaml:"data_file" env:"DATA_FILE"`
	DefaultMaxScore float64 `yaml:"default_max_score" env:"DEFAULT_MAX_SCORE"`
	LogLevel        string  `yaml:"log_level" env:"LOG_LEVEL"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DataFile:        DefaultDataFile,
		DefaultMaxScore: record.DefaultMaxScore,
		LogLevel:        "warn",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := decodeYAML(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, nil
}

// decodeYAML overlays the YAML document onto cfg. Unknown keys are rejected;
// an empty document leaves cfg unchanged.
func decodeYAML(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("data_file is required")
	}
	if err := validate.MaxScoreValue(c.DefaultMaxScore); err != nil {
		return fmt.Errorf("default_max_score must be a positive number, got %v", c.DefaultMaxScore)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log_level %q: must be one of %v", c.LogLevel, ValidLogLevels)
	}
}
