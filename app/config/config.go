// Package config loads the service configuration from BLOG_-prefixed
// environment variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "BLOG_"

// Store drivers understood by the repositories package.
const (
	DriverBadger   = "badger"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the root configuration object.
type Config struct {
	Env    string       `koanf:"env" validate:"required"`
	Server ServerConfig `koanf:"server" validate:"required"`
	Store  StoreConfig  `koanf:"store" validate:"required"`
	Log    LogConfig    `koanf:"log" validate:"required"`
}

// ServerConfig groups settings for the HTTP listener.
type ServerConfig struct {
	Port            string        `koanf:"port" validate:"required,numeric"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// StoreConfig selects the persistence backend. Path is the badger
// directory or the sqlite file; DSN is only read for postgres.
type StoreConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=badger sqlite postgres"`
	Path   string `koanf:"path" validate:"required_unless=Driver postgres"`
	DSN    string `koanf:"dsn" validate:"required_if=Driver postgres"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string `koanf:"level" validate:"required,oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"required,oneof=json console"`
}

// Default returns the configuration used when no environment overrides exist.
func Default() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Port:            "8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver: DriverBadger,
			Path:   "data/badger",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load overlays BLOG_* environment variables on top of Default and validates
// the result. The first underscore after the prefix separates the section
// from the key, so BLOG_SERVER_READ_TIMEOUT maps to server.read_timeout.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
}
