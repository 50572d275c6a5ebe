// Package config provides application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all engine configuration.
type Config struct {
	// DBPath overrides the default XDG database location when set.
	DBPath string `env:"LINGUA_DB"`

	// AbandonAfter is how long a session may sit idle before the sweeper
	// marks it abandoned.
	AbandonAfter time.Duration `env:"LINGUA_ABANDON_AFTER" envDefault:"30m"`

	// SweepInterval is how often the sweeper runs.
	SweepInterval time.Duration `env:"LINGUA_SWEEP_INTERVAL" envDefault:"1m"`
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	// A missing .env file is fine; real env vars still apply.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks configuration bounds.
func (c *Config) Validate() error {
	if c.AbandonAfter <= 0 {
		return fmt.Errorf("LINGUA_ABANDON_AFTER must be positive")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("LINGUA_SWEEP_INTERVAL must be positive")
	}
	return nil
}
