package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/lifecycle"
)

// StartupCommand returns the startup command.
func StartupCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "startup",
		Usage: "Start an environment's resources in dependency-safe order",
		Description: `Starts an environment in reverse shutdown order: the PostgreSQL server
first (waiting until it reports Ready), then AKS clusters and VMs, app
services, and finally container apps scaled to the environment's
profile.

Unless --skip-health-check is given, every discovered service endpoint
is probed on GET /health. Probe failures never abort startup; the
command exits 1 to signal "started but degraded" and the notification
is marked "Success with warnings".

Examples:
  # Start QA and run health checks
  envops startup --environment QA

  # Start dev without probing endpoints
  envops startup --environment Development --skip-health-check

  # Start with replica bounds from a custom profile
  envops startup --environment Production --profile ./scaling-prod.yaml`,
		Flags: []cli.Flag{
			environmentFlag(),
			resourceGroupFlag(),
			&cli.BoolFlag{
				Name:  "skip-health-check",
				Usage: "Skip the post-start endpoint health probes",
			},
			&cli.StringFlag{
				Name:    "profile",
				Aliases: []string{"p"},
				Usage:   "YAML scaling profile (defaults to the compiled-in profiles)",
			},
		},
		Action: func(c *cli.Context) error {
			return startupAction(c, logger)
		},
	}
}

func startupAction(c *cli.Context, logger *zerolog.Logger) error {
	env, resourceGroup, err := resolveTarget(c)
	if err != nil {
		return err
	}

	container, err := newContainer(c, env)
	if err != nil {
		return err
	}

	return container.Invoke(func(orch *lifecycle.Orchestrator) error {
		outcome := orch.Startup(c.Context, env, resourceGroup, lifecycle.StartupOptions{
			SkipHealthCheck: c.Bool("skip-health-check"),
		})

		printStageSummary(outcome)
		for _, probe := range outcome.Health {
			if probe.Healthy {
				fmt.Printf("  - health %-25s ok\n", probe.Endpoint.Name)
			} else {
				fmt.Printf("  - health %-25s FAILED: %v\n", probe.Endpoint.Name, probe.Err)
			}
		}

		if outcome.Failed() {
			return fmt.Errorf("startup of %s failed: %w", env, outcome.Pipeline.Err)
		}
		if outcome.Degraded() {
			// Started but degraded: non-zero exit without aborting anything.
			return cli.Exit(fmt.Sprintf("environment %s started but health checks failed", env), 1)
		}
		fmt.Printf("Environment %s started.\n", env)
		return nil
	})
}
