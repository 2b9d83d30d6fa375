package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"rangers.db"`
	Port           string `env:"PORT" envDefault:"8080"`
	Environment    string `env:"ENVIRONMENT" envDefault:"production"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"INFO"`

	// APITokenHash is the bcrypt hash of the bearer token accepted on write
	// routes. Leave empty to disable the check.
	APITokenHash string `env:"API_TOKEN_HASH"`

	MaxRangers  int    `env:"MAX_RANGERS" envDefault:"4"`
	CatalogPath string `env:"CATALOG_PATH"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.MaxRangers < 1 {
		return nil, fmt.Errorf("MAX_RANGERS must be at least 1, got %d", cfg.MaxRangers)
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Environment)
	return env == "development" || env == "dev"
}
