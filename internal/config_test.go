package internal

import (
	"testing"
)

func TestResolveEndpoint_FirstEnvWins(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://one:8000")
	t.Setenv(EnvBackendURL, "http://two:8000")

	cfg := NewDefaultConfig()
	if got := cfg.ResolveEndpoint(); got != "http://one:8000" {
		t.Errorf("endpoint = %q, want %q", got, "http://one:8000")
	}
}

func TestResolveEndpoint_SecondEnvFallback(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvBackendURL, "http://two:8000")

	cfg := NewDefaultConfig()
	if got := cfg.ResolveEndpoint(); got != "http://two:8000" {
		t.Errorf("endpoint = %q, want %q", got, "http://two:8000")
	}
}

func TestResolveEndpoint_ConfigValue(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvBackendURL, "")

	cfg := NewDefaultConfig()
	cfg.API.Endpoint = "http://cfg:9000"
	if got := cfg.ResolveEndpoint(); got != "http://cfg:9000" {
		t.Errorf("endpoint = %q, want %q", got, "http://cfg:9000")
	}
}

func TestResolveEndpoint_Default(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvBackendURL, "")

	cfg := NewDefaultConfig()
	cfg.API.Endpoint = ""
	if got := cfg.ResolveEndpoint(); got != DefaultEndpoint {
		t.Errorf("endpoint = %q, want %q", got, DefaultEndpoint)
	}
}

func TestResolveEndpoint_StripsTrailingSlashes(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://one:8000///")
	t.Setenv(EnvBackendURL, "")

	cfg := NewDefaultConfig()
	if got := cfg.ResolveEndpoint(); got != "http://one:8000" {
		t.Errorf("endpoint = %q, want %q", got, "http://one:8000")
	}

	t.Setenv(EnvAPIURL, "")
	cfg.API.Endpoint = "http://cfg:9000/"
	if got := cfg.ResolveEndpoint(); got != "http://cfg:9000" {
		t.Errorf("endpoint = %q, want %q", got, "http://cfg:9000")
	}
}

func TestAPIConfig_EmptyEndpointFailsValidation(t *testing.T) {
	cfg := APIConfig{Endpoint: ""}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty endpoint should fail validation")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
