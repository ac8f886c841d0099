package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/lifecycle"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/override"
)

// AutoCommand returns the auto command used by the scheduled automation.
func AutoCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "auto",
		Usage: "Run a forced shutdown or startup for scheduled automation",
		Description: `Entry point for the scheduler: authenticates via the ambient (managed)
identity, honours the override marker, and runs the requested action
without any interactive prompt.

When an unexpired override marker exists the action is skipped and the
command exits 0 so the schedule simply resumes on its next tick.

Examples:
  # Nightly shutdown of dev
  envops auto --action shutdown --environment Development

  # Morning startup of QA, suppressing the next automatic run for 2 hours
  envops auto --action startup --environment QA --override-hours 2`,
		Flags: []cli.Flag{
			environmentFlag(),
			resourceGroupFlag(),
			&cli.StringFlag{
				Name:     "action",
				Aliases:  []string{"a"},
				Usage:    "Lifecycle action to run: shutdown or startup",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "override-hours",
				Usage: "After running, write an override marker this many hours out (0 disables)",
			},
		},
		Action: func(c *cli.Context) error {
			return autoAction(c, logger)
		},
	}
}

func autoAction(c *cli.Context, logger *zerolog.Logger) error {
	env, resourceGroup, err := resolveTarget(c)
	if err != nil {
		return err
	}

	action := c.String("action")
	if action != "shutdown" && action != "startup" {
		return fmt.Errorf("unknown action %q (expected shutdown or startup)", action)
	}

	container, err := newContainer(c, env)
	if err != nil {
		return err
	}

	return container.Invoke(func(orch *lifecycle.Orchestrator, marker *override.Marker) error {
		active, until, err := marker.Active(c.Context, resourceGroup)
		if err != nil {
			// Marker problems never block the scheduled action.
			logger.Warn().Err(err).Msg("Failed to read override marker")
		}
		if active {
			logger.Info().Time("until", until).Str("action", action).Msg("Override marker active, skipping scheduled action")
			fmt.Printf("Override active until %s; %s skipped.\n", until.UTC().Format(time.RFC3339), action)
			return nil
		}

		var outcome lifecycle.Outcome
		switch action {
		case "shutdown":
			outcome = orch.Shutdown(c.Context, env, resourceGroup, lifecycle.ShutdownOptions{})
		case "startup":
			outcome = orch.Startup(c.Context, env, resourceGroup, lifecycle.StartupOptions{})
		}
		if outcome.Failed() {
			return fmt.Errorf("scheduled %s of %s failed: %w", action, env, outcome.Pipeline.Err)
		}

		if hours := c.Int("override-hours"); hours > 0 {
			until := time.Now().Add(time.Duration(hours) * time.Hour)
			if err := marker.Set(c.Context, resourceGroup, until); err != nil {
				logger.Warn().Err(err).Msg("Failed to write override marker")
			}
		}

		if outcome.Degraded() {
			return cli.Exit(fmt.Sprintf("scheduled %s of %s completed with failing health checks", action, env), 1)
		}
		return nil
	})
}
