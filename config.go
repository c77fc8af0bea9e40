package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
)

// defaultConfigPath is the file read when --config is not given.
const defaultConfigPath = "ledblink.toml"

// defaultConfig is the behaviour without a config file or flags: BCM pin
// 18, five iterations, one second per step.
func defaultConfig() Config {
	return Config{
		Backend:  "periph",
		Pin:      18,
		Count:    5,
		Interval: "1s",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// loadConfig reads the TOML file at path on top of the defaults.  A missing
// file is not an error: the defaults are returned unchanged.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags overrides cfg with flags the user set explicitly on the command
// line, so CLI > file > defaults.
func applyFlags(cfg *Config, flags *pflag.FlagSet) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "backend":
			cfg.Backend, err = flags.GetString("backend")
		case "pin":
			cfg.Pin, err = flags.GetInt("pin")
		case "log-level":
			cfg.Logging.Level, err = flags.GetString("log-level")
		}
	})
	return err
}

// validate checks cfg and returns the parsed hold interval.
func (c Config) validate() (time.Duration, error) {
	if c.Pin < 0 {
		return 0, fmt.Errorf("invalid pin %d", c.Pin)
	}
	if c.Count < 1 {
		return 0, fmt.Errorf("count must be at least 1, got %d", c.Count)
	}
	interval, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid interval: %w", err)
	}
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %s", interval)
	}
	if !knownBackend(c.Backend) {
		return 0, fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return 0, fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	return interval, nil
}
