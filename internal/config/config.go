package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains application configuration parameters.
type Config struct {
	LogLevel int   `env:"LOG_LEVEL" envDefault:"0"`
	Store    Store `envPrefix:"STORE_"`
	JWT      JWT   `envPrefix:"JWT_"`
}

// Store contains snapshot store parameters.
type Store struct {
	Path string `env:"PATH" envDefault:"data/data.json"`
}

// JWT contains token signing parameters. The secret is process-wide
// configuration, never store state.
type JWT struct {
	Secret string `env:"SECRET" envDefault:"dev_secret_change_me"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
