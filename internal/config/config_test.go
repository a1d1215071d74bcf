package config

import (
	"strings"
	"testing"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("MAILBRIDGE_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when API key is absent")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MAILBRIDGE_API_KEY", "mb_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "mb_test" {
		t.Fatalf("unexpected API key %q", cfg.APIKey)
	}
	if cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Debug || cfg.HTTPTimeoutSeconds != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadParsesValues(t *testing.T) {
	t.Setenv("MAILBRIDGE_API_KEY", "mb_test")
	t.Setenv("MAILBRIDGE_BASE_URL", "http://localhost:8080")
	t.Setenv("MAILBRIDGE_DEBUG", "true")
	t.Setenv("MAILBRIDGE_HTTP_TIMEOUT_SECONDS", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080" || !cfg.Debug || cfg.HTTPTimeoutSeconds != 15 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadAccumulatesErrors(t *testing.T) {
	t.Setenv("MAILBRIDGE_API_KEY", "")
	t.Setenv("MAILBRIDGE_DEBUG", "not-a-bool")
	t.Setenv("MAILBRIDGE_HTTP_TIMEOUT_SECONDS", "not-an-int")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"MAILBRIDGE_API_KEY", "MAILBRIDGE_DEBUG", "MAILBRIDGE_HTTP_TIMEOUT_SECONDS"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error mentioning %s, got %v", want, err)
		}
	}
}
