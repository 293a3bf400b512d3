// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config defines server configuration.
type Config struct {
	// Host and Port are the HTTP listen address.
	Host string `env:"GATHERLY_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"GATHERLY_PORT" envDefault:"8080"`

	// DBPath is the SQLite database file. Parent directories are
	// created on startup.
	DBPath string `env:"GATHERLY_DB_PATH" envDefault:"./data/gatherly.db"`

	// JWTSecret signs session tokens. Must be set outside of local
	// development.
	JWTSecret string `env:"GATHERLY_JWT_SECRET" envDefault:"dev-secret-change-me"`

	// TokenTTL is how long session tokens stay valid.
	TokenTTL time.Duration `env:"GATHERLY_TOKEN_TTL" envDefault:"24h"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
