// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

// Package config loads and validates the service configuration from
// environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting for the Veriface API.
//
// All values come from the environment. Secrets (JWT_SECRET, TEMPLATE_KEY)
// are required and have no defaults: the process refuses to start without
// them rather than falling back to a guessable value.
type Config struct {
	// Environment selects the runtime profile (development, staging, production).
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Debug enables debug-level logging.
	Debug bool `env:"DEBUG" envDefault:"false"`

	// ServerPort is the TCP port the HTTP server listens on.
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `env:"DATABASE_URL,required"`

	// RedisURL is the Redis connection string for the attempt limiter.
	RedisURL string `env:"REDIS_URL,required"`

	// MigrationPath is the filesystem path to the SQL migration files.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"data/migrations"`

	// JWTSecret signs and verifies all session tokens (HS256).
	JWTSecret string `env:"JWT_SECRET,required"`

	// TemplateKeyHex is the hex-encoded 256-bit key for biometric
	// template encryption.
	TemplateKeyHex string `env:"TEMPLATE_KEY,required"`

	// InferenceURL is the base URL of the face embedding service.
	InferenceURL string `env:"INFERENCE_URL,required"`

	// InferenceTimeout bounds a single embedding request for one frame.
	InferenceTimeout time.Duration `env:"INFERENCE_TIMEOUT" envDefault:"5s"`
}

// Load parses the environment into a [Config] and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config_parse_failed: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config_validation_failed: %w", err)
	}

	return cfg, nil
}

// validate enforces constraints env tags cannot express.
func (c *Config) validate() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters, got %d", len(c.JWTSecret))
	}

	if _, err := c.TemplateKey(); err != nil {
		return err
	}

	return nil
}

// TemplateKey decodes TEMPLATE_KEY and checks it is exactly 256 bits.
func (c *Config) TemplateKey() ([]byte, error) {
	key, err := hex.DecodeString(c.TemplateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("TEMPLATE_KEY must be hex-encoded: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("TEMPLATE_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// IsProduction reports whether the service runs with the production profile.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment reports whether the service runs with the development profile.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
