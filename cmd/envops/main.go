package main

import (
	"context"
	"os"

	"github.com/RobertsBrothersCoach/rbc-envops/cmd/envops/commands"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/di"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := di.ProvideLogger()
	ctx := logger.WithContext(context.Background())

	app := &cli.App{
		Name:  "envops",
		Usage: "TourBus environment lifecycle toolkit",
		Description: `A unified CLI tool for operating the TourBus Azure environments.

This tool provides commands for:
  - Shutting down and starting up environments in dependency-safe order
  - Applying per-environment scaling configuration
  - Managing the scheduler override marker used by automated shutdown
  - Inspecting environment inventory against the last resource snapshot`,
		Commands: []*cli.Command{
			commands.ShutdownCommand(&logger),
			commands.StartupCommand(&logger),
			commands.ScaleCommand(&logger),
			commands.OverrideCommand(&logger),
			commands.AutoCommand(&logger),
			commands.StatusCommand(&logger),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
