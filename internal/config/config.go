// Package config loads the YAML configuration for batches of scripted
// Minesweeper sessions.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds a batch of sessions and how to run them.
type Config struct {
	// Workers bounds how many sessions run at once (0 = one per CPU)
	Workers int `yaml:"workers" validate:"gte=0,lte=1024"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Metrics
	Metrics MetricsConfig `yaml:"metrics"`

	// Sessions to play, in order
	Sessions []SessionConfig `yaml:"sessions" validate:"required,min=1,dive"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// MetricsConfig configures Prometheus collection.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SessionConfig describes one game: the true layout and the seed for the
// random source used when no safe move is known.
type SessionConfig struct {
	Name     string   `yaml:"name" validate:"required"`
	Seed     uint64   `yaml:"seed"`
	MaxMoves int      `yaml:"max_moves" validate:"gte=0"` // 0 = until the game ends
	Layout   []string `yaml:"layout" validate:"required,min=1,dive,required,layoutrow"`
}

// configValidate is the validator instance for configuration types.
// Initialized in init() with custom validators.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	_ = configValidate.RegisterValidation("layoutrow", validateLayoutRow)
}

// validateLayoutRow accepts rows made only of mine and empty markers.
func validateLayoutRow(fl validator.FieldLevel) bool {
	row := fl.Field().String()
	return strings.Trim(row, "X*.") == ""
}

// Default returns a configuration with defaults applied and no sessions.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", JSON: true},
	}
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints, rectangular layouts and unique
// session names.
func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	names := make(map[string]struct{}, len(c.Sessions))
	for i, s := range c.Sessions {
		if _, dup := names[s.Name]; dup {
			return fmt.Errorf("invalid config: sessions[%d]: duplicate name %q", i, s.Name)
		}
		names[s.Name] = struct{}{}

		width := len(s.Layout[0])
		for r, row := range s.Layout {
			if len(row) != width {
				return fmt.Errorf("invalid config: session %q: row %d has width %d, want %d", s.Name, r, len(row), width)
			}
		}
	}
	return nil
}
