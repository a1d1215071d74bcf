// Package logger builds the zerolog sink handed to the SDK through
// mailbridge.WithLogger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New constructs a zerolog logger for the given environment and level.
// Development environments get human-readable console output; anything else
// emits JSON for ingestion. Extra writers, when supplied, replace the
// default output entirely.
func New(env, level string, writers ...io.Writer) (zerolog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}

	var output io.Writer
	switch {
	case len(writers) > 0:
		output = io.MultiWriter(writers...)
	case strings.EqualFold(env, "development") || strings.EqualFold(env, "dev"):
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	default:
		output = os.Stdout
	}

	return zerolog.New(output).With().Timestamp().Logger().Level(lvl), nil
}

func parseLevel(level string) (zerolog.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(level))
}
