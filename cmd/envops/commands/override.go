package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	apperrors "github.com/RobertsBrothersCoach/rbc-envops/internal/errors"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/override"
)

// OverrideCommand returns the override command and its subcommands.
func OverrideCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "override",
		Usage: "Manage the scheduler override marker",
		Description: `The override marker is a timestamp tag on the environment's resource
group. While the marker is in the future, the scheduled automation
skips its next automatic shutdown/startup of that environment.

Writes are last-writer-wins; setting a new marker replaces any
existing one.

Examples:
  # Keep dev running for the next 4 hours
  envops override set --environment Development --hours 4

  # Suppress automation until an explicit instant
  envops override set --environment QA --until 2026-09-01T06:00:00Z

  # Inspect or remove the marker
  envops override show --environment Development
  envops override clear --environment Development`,
		Subcommands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Write an override marker",
				Flags: []cli.Flag{
					environmentFlag(),
					resourceGroupFlag(),
					&cli.IntFlag{
						Name:  "hours",
						Usage: "Override duration in hours from now",
						Value: 4,
					},
					&cli.StringFlag{
						Name:  "until",
						Usage: "Override expiry as an RFC3339 timestamp (overrides --hours)",
					},
				},
				Action: func(c *cli.Context) error {
					return overrideSetAction(c, logger)
				},
			},
			{
				Name:  "clear",
				Usage: "Remove the override marker",
				Flags: []cli.Flag{environmentFlag(), resourceGroupFlag()},
				Action: func(c *cli.Context) error {
					return overrideClearAction(c, logger)
				},
			},
			{
				Name:  "show",
				Usage: "Show the current override marker",
				Flags: []cli.Flag{environmentFlag(), resourceGroupFlag()},
				Action: func(c *cli.Context) error {
					return overrideShowAction(c, logger)
				},
			},
		},
	}
}

func overrideSetAction(c *cli.Context, logger *zerolog.Logger) error {
	env, resourceGroup, err := resolveTarget(c)
	if err != nil {
		return err
	}

	until := time.Now().Add(time.Duration(c.Int("hours")) * time.Hour)
	if raw := c.String("until"); raw != "" {
		until, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("invalid --until value %q: %w", raw, err)
		}
	}

	container, err := newContainer(c, env)
	if err != nil {
		return err
	}

	return container.Invoke(func(marker *override.Marker) error {
		if err := marker.Set(c.Context, resourceGroup, until); err != nil {
			return err
		}
		logger.Info().Str("environment", env.String()).Time("until", until).Msg("Override marker set")
		fmt.Printf("Automation for %s suppressed until %s.\n", env, until.UTC().Format(time.RFC3339))
		return nil
	})
}

func overrideClearAction(c *cli.Context, logger *zerolog.Logger) error {
	env, resourceGroup, err := resolveTarget(c)
	if err != nil {
		return err
	}

	container, err := newContainer(c, env)
	if err != nil {
		return err
	}

	return container.Invoke(func(marker *override.Marker) error {
		if err := marker.Clear(c.Context, resourceGroup); err != nil {
			return err
		}
		logger.Info().Str("environment", env.String()).Msg("Override marker cleared")
		fmt.Printf("Override for %s cleared.\n", env)
		return nil
	})
}

func overrideShowAction(c *cli.Context, logger *zerolog.Logger) error {
	env, resourceGroup, err := resolveTarget(c)
	if err != nil {
		return err
	}

	container, err := newContainer(c, env)
	if err != nil {
		return err
	}

	return container.Invoke(func(marker *override.Marker) error {
		until, err := marker.Get(c.Context, resourceGroup)
		if errors.Is(err, apperrors.ErrOverrideNotSet) {
			fmt.Printf("No override marker set for %s.\n", env)
			return nil
		}
		if err != nil {
			return err
		}
		state := "active"
		if time.Now().After(until) {
			state = "expired"
		}
		fmt.Printf("Override for %s: until %s (%s)\n", env, until.UTC().Format(time.RFC3339), state)
		return nil
	})
}
