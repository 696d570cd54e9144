// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable of the server binary.
type Config struct {
	// Addr is the listen address of the HTTP/WebSocket server.
	Addr string `env:"RELIEFLINE_ADDR" envDefault:":8080"`

	// ReadTimeout bounds reading one HTTP request.
	ReadTimeout time.Duration `env:"RELIEFLINE_READ_TIMEOUT" envDefault:"10s"`
	// WriteTimeout bounds writing one HTTP response. It does not apply to
	// upgraded WebSocket connections.
	WriteTimeout time.Duration `env:"RELIEFLINE_WRITE_TIMEOUT" envDefault:"10s"`
	// IdleTimeout bounds idle keep-alive HTTP connections.
	IdleTimeout time.Duration `env:"RELIEFLINE_IDLE_TIMEOUT" envDefault:"120s"`

	// SeedDemoData registers the demo reliever roster at startup.
	SeedDemoData bool `env:"RELIEFLINE_SEED_DEMO_DATA" envDefault:"true"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
