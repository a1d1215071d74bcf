// Command mailbridge-demo exercises the SDK against a live or stub backend.
// Configuration comes from the environment (or a .env file):
//
//	MAILBRIDGE_API_KEY=...
//	MAILBRIDGE_BASE_URL=http://localhost:8080   # optional
//	MAILBRIDGE_DEBUG=true                       # optional
//
// Usage: mailbridge-demo <from> <to> [subject]
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog"

	mailbridge "github.com/example/mailbridge-go"
	"github.com/example/mailbridge-go/internal/config"
	"github.com/example/mailbridge-go/internal/logger"
)

func main() {
	fallback := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	if len(os.Args) < 3 {
		fallback.Fatal().Msg("usage: mailbridge-demo <from> <to> [subject]")
	}
	from, to := os.Args[1], os.Args[2]
	subject := "Mailbridge demo"
	if len(os.Args) > 3 {
		subject = os.Args[3]
	}

	cfg, err := config.Load()
	if err != nil {
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fallback.Fatal().Err(err).Msg("failed to build logger")
	}

	client, err := mailbridge.NewFromEnv(
		mailbridge.WithLogger(log),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res := client.NewEmail().
		From(from).
		To(to).
		Subject(subject).
		Text("Hello from the Mailbridge Go SDK demo.").
		Send(ctx)

	out, _ := json.MarshalIndent(res, "", "  ")
	os.Stdout.Write(append(out, '\n'))

	if !res.Success {
		os.Exit(1)
	}
}
