package main

import (
	"context"
	"errors"
	"os"

	"github.com/softcover/shelf/internal/services"
	"github.com/softcover/shelf/internal/session"
	"github.com/softcover/shelf/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	ctx := context.Background()

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	httpClient, err := services.NewHTTPClient(ctx, config)
	if err != nil {
		logger.Fatalf("failed to build HTTP client: %v", err)
	}

	var signal *session.Signal
	if signalPath, err := config.SignalPath(); err == nil {
		signal = session.NewSignal(signalPath, logger)
	} else {
		logger.Warn("session signaling disabled", "error", err)
	}

	gateways := services.NewGateways(config, httpClient)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Gateways:   gateways,
		Signal:     signal,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "shelf",
		Usage:    "Track your reading against a Softcover backend",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
