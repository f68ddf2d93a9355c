package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/rs/zerolog"

	"github.com/petasbytes/followup-agent/internal/chat"
	"github.com/petasbytes/followup-agent/internal/config"
	"github.com/petasbytes/followup-agent/internal/provider"
	"github.com/petasbytes/followup-agent/internal/runner"
	"github.com/petasbytes/followup-agent/internal/telemetry"
	"github.com/petasbytes/followup-agent/tools"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	cfg, err := config.Load("")
	if err != nil {
		log.Error().Err(err).Msg("configuration")
		return 1
	}
	log = log.Level(cfg.Level())

	telemetry.Configure(telemetry.Options{
		Enabled: cfg.ObserveJSON,
		Dir:     cfg.ArtifactsDir,
		Log:     &log,
	})

	// Ctrl-C / SIGTERM cancels an in-flight model call.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.New(provider.NewAnthropicClient(cfg.APIKey), tools.Registry(os.Stdout))
	r.Model = anthropic.Model(cfg.Model)
	r.MaxTokens = cfg.MaxTokens
	r.MaxSteps = cfg.MaxSteps
	r.Log = log

	loop := chat.New(os.Stdin, os.Stdout, r)
	loop.Log = log

	if err := loop.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("\nExiting...")
			return 0
		}
		log.Error().Err(err).Msg("agent stopped")
		return 1
	}
	return 0
}
