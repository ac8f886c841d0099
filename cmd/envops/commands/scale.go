package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/envs"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/lifecycle"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/scaling"
)

// ScaleCommand returns the scale command.
func ScaleCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "scale",
		Usage: "Apply an environment's scaling configuration",
		Description: `Pushes the environment's scaling profile to its Container Apps (replica
bounds) and AKS agent pools (node counts). Resources already matching
the profile are left untouched.

Examples:
  # Show what would change in QA (default is dry-run)
  envops scale --environment QA

  # Apply the compiled-in profile to QA
  envops scale --environment QA --execute

  # Apply a custom profile to Production
  envops scale --environment Production --profile ./scaling-prod.yaml --execute`,
		Flags: []cli.Flag{
			environmentFlag(),
			resourceGroupFlag(),
			&cli.StringFlag{
				Name:    "profile",
				Aliases: []string{"p"},
				Usage:   "YAML scaling profile (defaults to the compiled-in profiles)",
			},
			&cli.BoolFlag{
				Name:    "execute",
				Aliases: []string{"x"},
				Usage:   "Actually apply changes (default is dry-run)",
			},
		},
		Action: func(c *cli.Context) error {
			return scaleAction(c, logger)
		},
	}
}

func scaleAction(c *cli.Context, logger *zerolog.Logger) error {
	env, resourceGroup, err := resolveTarget(c)
	if err != nil {
		return err
	}

	container, err := newContainer(c, env)
	if err != nil {
		return err
	}

	return container.Invoke(func(orch *lifecycle.Orchestrator, profiles scaling.ProfileSet) error {
		profile, err := profiles.ForEnvironment(env)
		if err != nil {
			return err
		}

		dryRun := !c.Bool("execute")
		changes, err := orch.ApplyScaling(c.Context, env, resourceGroup, profile, dryRun)
		if err != nil {
			return fmt.Errorf("failed to apply scaling to %s: %w", env, err)
		}

		if len(changes) == 0 {
			fmt.Printf("Environment %s already matches its scaling profile.\n", env)
			return nil
		}

		printChanges(env, changes, dryRun)
		return nil
	})
}

func printChanges(env envs.Environment, changes []lifecycle.ScaleChange, dryRun bool) {
	verb := "Applied"
	if dryRun {
		verb = "Planned"
	}
	fmt.Printf("%s %d scaling change(s) for %s:\n", verb, len(changes), env)
	for _, change := range changes {
		fmt.Printf("  - %-32s %s\n", change.Resource, change.Detail)
	}
	if dryRun {
		fmt.Println("DRY RUN: No changes were applied. Use --execute to apply.")
	}
}
