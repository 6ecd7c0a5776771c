// Package config loads process-level settings from the environment.
// None of these are required: with nothing set the game runs with the
// documented defaults and no files or sockets are opened.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds settings for the outer process.
type Config struct {
	TickInterval  time.Duration `env:"PETS_TICK_INTERVAL" envDefault:"7500ms"`
	NuisanceMood  float64       `env:"PETS_NUISANCE_MOOD" envDefault:"25"`
	ExitCountdown int           `env:"PETS_EXIT_COUNTDOWN" envDefault:"3"`

	LogFile     string `env:"PETS_LOG_FILE"`
	JournalPath string `env:"PETS_JOURNAL_PATH"`
	StatusAddr  string `env:"PETS_STATUS_ADDR"`
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		TickInterval:  7500 * time.Millisecond,
		NuisanceMood:  25,
		ExitCountdown: 3,
	}
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("PETS_TICK_INTERVAL must be positive, got %s", c.TickInterval))
	}
	if c.NuisanceMood < 0 {
		errs = append(errs, fmt.Errorf("PETS_NUISANCE_MOOD must not be negative, got %g", c.NuisanceMood))
	}
	if c.ExitCountdown < 0 {
		errs = append(errs, fmt.Errorf("PETS_EXIT_COUNTDOWN must not be negative, got %d", c.ExitCountdown))
	}
	return errors.Join(errs...)
}
