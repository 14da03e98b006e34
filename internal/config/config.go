package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int           `env:"PORT" envDefault:"3000"`
	DatabasePath   string        `env:"DATABASE_PATH" envDefault:"./rentify.db"`
	JWTSecret      string        `env:"JWT_SECRET,notEmpty"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"0s"` // zero means tokens never expire
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://rentify-frontend-ecru.vercel.app"`
	Environment    string        `env:"APP_ENV" envDefault:"development"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables or sets defaults.
// A missing JWT_SECRET is an error so the process refuses to start without one.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TokenTTL < 0 {
		return nil, fmt.Errorf("TOKEN_TTL must not be negative, got %s", cfg.TokenTTL)
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
