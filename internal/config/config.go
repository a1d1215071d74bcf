// Package config loads SDK configuration from the environment, honouring a
// local .env file when one is present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures the environment-driven settings for constructing a
// client.
type Config struct {
	APIKey             string
	BaseURL            string
	Debug              bool
	Env                string
	LogLevel           string
	HTTPTimeoutSeconds int
}

// Load reads environment variables, applies defaults, validates required
// values and returns a populated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}

	cfg := &Config{}
	cfg.APIKey = ldr.getString("MAILBRIDGE_API_KEY", "", true)
	cfg.BaseURL = ldr.getString("MAILBRIDGE_BASE_URL", "", false)
	cfg.Debug = ldr.getBool("MAILBRIDGE_DEBUG", false)
	cfg.Env = ldr.getString("APP_ENV", "development", false)
	cfg.LogLevel = ldr.getString("LOG_LEVEL", "info", false)
	cfg.HTTPTimeoutSeconds = ldr.getInt("MAILBRIDGE_HTTP_TIMEOUT_SECONDS", 0)

	if err := ldr.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) addError(msg string) {
	l.errs = append(l.errs, msg)
}

func (l *envLoader) getString(key, def string, required bool) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		if required {
			l.addError(fmt.Sprintf("%s is required", key))
		}
		return def
	}
	return val
}

func (l *envLoader) getInt(key string, def int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		l.addError(fmt.Sprintf("%s must be an integer", key))
		return def
	}
	return parsed
}

func (l *envLoader) getBool(key string, def bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		l.addError(fmt.Sprintf("%s must be a boolean", key))
		return def
	}
	return parsed
}
