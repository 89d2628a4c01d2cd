// Package config loads application configuration from the environment
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v8"
)

// Config represents the application configuration
type Config struct {
	API       APIConfig
	Auth      AuthConfig
	Database  DatabaseConfig
	Exchange  ExchangeConfig
	RateLimit RateLimitConfig
}

// APIConfig contains API server settings
type APIConfig struct {
	Port int `env:"API_PORT" envDefault:"8080"`
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	// JWTSecret is the secret key used to sign JWT tokens
	JWTSecret string `env:"JWT_SECRET"`
	// TokenDuration is the lifetime of issued access tokens
	TokenDuration time.Duration `env:"TOKEN_DURATION" envDefault:"24h"`
	// RegistrationOpen determines if new user registration is allowed
	RegistrationOpen bool `env:"REGISTRATION_OPEN" envDefault:"true"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host           string `env:"DB_HOST" envDefault:"localhost"`
	Port           int    `env:"DB_PORT" envDefault:"5432"`
	User           string `env:"DB_USER" envDefault:"postgres"`
	Password       string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName         string `env:"DB_NAME" envDefault:"tally"`
	SSLMode        string `env:"DB_SSL_MODE" envDefault:"disable"`
	MigrationsPath string `env:"DB_MIGRATIONS_PATH" envDefault:"migrations"`
}

// ExchangeConfig contains exchange rate gateway settings
type ExchangeConfig struct {
	// BaseURL is the base URL of the exchange rate API
	BaseURL string `env:"EXCHANGE_API_URL" envDefault:"https://api.exchangerate.host"`
	// Timeout bounds every rate lookup so a stalled gateway cannot
	// hold a request open indefinitely
	Timeout time.Duration `env:"EXCHANGE_TIMEOUT" envDefault:"10s"`
}

// RateLimitConfig contains request rate limiting settings
type RateLimitConfig struct {
	// Requests is the number of requests allowed per window
	Requests int `env:"RATE_LIMIT_REQUESTS" envDefault:"1000"`
	// Window is the time window in seconds
	Window int `env:"RATE_LIMIT_WINDOW" envDefault:"60"`
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	return nil
}
