package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/otpx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(defaultConfigPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(defaultConfigPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("ignoring invalid config", "path", defaultConfigPath, "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{Config: config, Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(runner).Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrEmptyInput) {
			fmt.Fprintln(os.Stderr, "No input! Aborting...")
			stop()
			os.Exit(2)
		}
		stop()
		logger.Fatalf("application error: %v", err)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "otpx",
		Usage:    "Move accounts out of a Google Authenticator export, one QR code at a time",
		Version:  "0.1.0",
		Commands: r.register(),
	}
}
