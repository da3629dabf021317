package internal

import (
	"log/slog"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Environment settings that override the configured endpoint.
// The first one defined wins.
const (
	EnvAPIURL     = "NOTES_API_URL"
	EnvBackendURL = "NOTES_BACKEND_URL"
)

// DefaultEndpoint is used when neither the environment nor the config file
// names a notes service.
const DefaultEndpoint = "http://localhost:8000"

// Config represents the application configuration.
type Config struct {
	App ApplicationConfig `yaml:"app"`
	API APIConfig         `yaml:"api"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	return c.API.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	// LogFile receives structured logs. The TUI owns the terminal, so
	// logging to stdout would corrupt the display; empty means discard.
	LogFile string `yaml:"log_file"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return nil
}

// APIConfig holds the notes service endpoint.
type APIConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// Validate validates the API configuration.
func (c *APIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Endpoint, validation.Required),
	)
}

// ResolveEndpoint applies the endpoint resolution order: environment
// settings first (EnvAPIURL, then EnvBackendURL, first defined wins), then
// the configured value, then DefaultEndpoint. Trailing slashes are
// stripped so paths can be appended directly.
func (c *Config) ResolveEndpoint() string {
	for _, key := range []string{EnvAPIURL, EnvBackendURL} {
		if v := os.Getenv(key); v != "" {
			return strings.TrimRight(v, "/")
		}
	}
	if c.API.Endpoint != "" {
		return strings.TrimRight(c.API.Endpoint, "/")
	}
	return DefaultEndpoint
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		API: APIConfig{
			Endpoint: DefaultEndpoint,
		},
	}
}
