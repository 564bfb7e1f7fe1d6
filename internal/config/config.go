// Package config manages environment variables.
//
// It reads variables from the process environment (and an optional
// `.env` file), loads them on top of built-in defaults, and validates
// the result so it can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad config.
//   - Provide defaults so the service boots with no environment at all.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the PROJECTS_ prefix. The prefix is removed,
	the key is lowercased and a double underscore marks nesting, so a single
	underscore can stay inside a key name:

	  PROJECTS_SERVER__PORT         -> server.port         -> Config.Server.Port
	  PROJECTS_SERVER__READ_TIMEOUT -> server.read_timeout -> Config.Server.ReadTimeout

	Lists are comma separated:

	  PROJECTS_SERVER__CORS_ALLOWED_ORIGINS=https://a.example,https://b.example
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "PROJECTS_"

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Projects      ProjectsConfig       `koanf:"projects"`
	Observability *ObservabilityConfig `koanf:"observability" validate:"required"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// RateLimit is the sustained requests/second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// ProjectsConfig tunes the projects API.
type ProjectsConfig struct {
	// RequireFields rejects create/update bodies missing title or owner.
	// Off by default: missing fields are stored as empty strings.
	RequireFields bool `koanf:"require_fields"`
}

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{
			Env: "development",
		},
		Server: ServerConfig{
			Port:               "3333",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// listKeys are read as comma separated lists.
var listKeys = map[string]bool{
	"server.cors_allowed_origins": true,
}

// envKey turns PROJECTS_SERVER__READ_TIMEOUT into server.read_timeout.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// envValue maps one variable to its koanf key and value, splitting list
// keys on commas: "a, b" -> []string{"a", "b"}.
func envValue(name, value string) (string, interface{}) {
	key := envKey(name)
	if !listKeys[key] {
		return key, value
	}

	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// LoadConfig loads configuration from environment variables on top of
// DefaultConfig, validates it and returns the resulting config.
func LoadConfig() (*Config, error) {
	// The "." is the key-path delimiter koanf uses to represent nesting.
	k := koanf.New(".")

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Unmarshal only overwrites keys that are present, so the defaults
	// survive for everything the environment leaves out.
	mainConfig := DefaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Force service name and environment so telemetry is labelled consistently.
	mainConfig.Observability.ServiceName = "projects-api"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
