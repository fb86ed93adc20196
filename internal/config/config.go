package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Logging format values accepted in the config file.
const (
	formatJSON    = "json"
	formatConsole = "console"
)

// Config is the on-disk configuration. Data source endpoints are compiled in
// and are intentionally not configurable here.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	// Level is a zerolog level name (trace, debug, info, warn, error).
	Level string `yaml:"level"`
	// Format is "json" or "console".
	Format string `yaml:"format"`
	// File is the log file path. Empty means the default file in interactive
	// mode and stderr otherwise.
	File string `yaml:"file"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: formatConsole,
		},
	}
}

// Load reads the YAML file at path on top of the defaults. When required is
// false a missing file yields the defaults without error.
func Load(path string, required bool) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML from %s: %w", path, err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.Logging.Level != "" {
		if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("logging.level %q: %w", c.Logging.Level, err)
		}
	}
	switch c.Logging.Format {
	case "", formatJSON, formatConsole:
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", formatJSON, formatConsole, c.Logging.Format)
	}
	return nil
}
