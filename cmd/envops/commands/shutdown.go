package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/lifecycle"
)

// ShutdownCommand returns the shutdown command.
func ShutdownCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "shutdown",
		Usage: "Stop an environment's resources in dependency-safe order",
		Description: `Shuts down an environment: container apps scale to zero, app services
stop, AKS clusters and VMs deallocate, and the PostgreSQL server stops
last so in-flight requests have drained.

Before any stop action the current resource inventory is saved to
resource-state-{env}-{yyyyMMdd}.json (best effort). A webhook
notification is sent on both success and failure.

Examples:
  # Shut down dev with an interactive confirmation
  envops shutdown --environment Development

  # Shut down QA without prompting
  envops shutdown --environment QA --force

  # Target a non-conventional resource group
  envops shutdown --environment Development --resource-group rg-tourbus-sandbox --force`,
		Flags: []cli.Flag{
			environmentFlag(),
			resourceGroupFlag(),
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Skip confirmation prompt",
			},
			&cli.BoolFlag{
				Name:  "skip-snapshot",
				Usage: "Do not save a resource-state snapshot before stopping",
			},
		},
		Action: func(c *cli.Context) error {
			return shutdownAction(c, logger)
		},
	}
}

func shutdownAction(c *cli.Context, logger *zerolog.Logger) error {
	env, resourceGroup, err := resolveTarget(c)
	if err != nil {
		return err
	}

	if !c.Bool("force") {
		fmt.Printf("About to shut down the %s environment (%s).\n", env, resourceGroup)
		if !confirm("Are you sure? (yes/no): ") {
			fmt.Println("Shutdown cancelled")
			return nil
		}
	}

	container, err := newContainer(c, env)
	if err != nil {
		return err
	}

	return container.Invoke(func(orch *lifecycle.Orchestrator) error {
		outcome := orch.Shutdown(c.Context, env, resourceGroup, lifecycle.ShutdownOptions{
			SkipSnapshot: c.Bool("skip-snapshot"),
		})

		printStageSummary(outcome)
		if outcome.Failed() {
			return fmt.Errorf("shutdown of %s failed: %w", env, outcome.Pipeline.Err)
		}
		fmt.Printf("Environment %s shut down.\n", env)
		return nil
	})
}

// printStageSummary renders the per-stage results for the operator.
func printStageSummary(outcome lifecycle.Outcome) {
	for _, stage := range outcome.Pipeline.Stages {
		switch {
		case stage.Skipped:
			fmt.Printf("  - %-32s skipped\n", stage.Name)
		case stage.Err != nil:
			fmt.Printf("  - %-32s FAILED (%s): %v\n", stage.Name, stage.Mode, stage.Err)
		default:
			fmt.Printf("  - %-32s ok (%s)\n", stage.Name, stage.Duration.Round(time.Millisecond))
		}
	}
}
