package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains all server configuration, loaded from the environment.
type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	MongoURI      string        `env:"MONGO_URI" envDefault:"mongodb://127.0.0.1:27017"`
	MongoDatabase string        `env:"MONGO_DATABASE" envDefault:"taskflow"`
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"12"`
	AllowedOrigin string        `env:"ALLOWED_ORIGIN" envDefault:"http://localhost:3000"`
	AppEnv        string        `env:"APP_ENV" envDefault:"development"`
}

// Load parses configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 14 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", cfg.BcryptCost)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}

	return &cfg, nil
}

// Development reports whether the server runs in development mode.
// Internal error details are only exposed to clients in development.
func (c *Config) Development() bool {
	return c.AppEnv == "development"
}
