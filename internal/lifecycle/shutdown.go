package lifecycle

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/envs"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/pipeline"
)

// ShutdownOptions tune a shutdown run.
type ShutdownOptions struct {
	// SkipSnapshot disables the pre-shutdown resource-state snapshot.
	SkipSnapshot bool
}

// Shutdown stops an environment's resources in dependency order: container
// apps scale to zero first, then app services, then generic compute, and the
// database last so in-flight requests have drained before it goes away.
func (o *Orchestrator) Shutdown(ctx context.Context, env envs.Environment, resourceGroup string, opts ShutdownOptions) Outcome {
	outcome := Outcome{RunID: o.newRunID()}
	logger := o.logger.With().
		Str("run", outcome.RunID).
		Str("environment", env.String()).
		Str("resource_group", resourceGroup).
		Logger()

	var stages []pipeline.Stage
	if !opts.SkipSnapshot {
		stages = append(stages, pipeline.Stage{
			Name: "save-resource-snapshot",
			Mode: pipeline.BestEffort,
			Run: func(ctx context.Context) error {
				resources, err := o.inventory.List(ctx, resourceGroup)
				if err != nil {
					return err
				}
				path, err := o.snapshots.Save(env, resources, o.clock.Now())
				if err != nil {
					return err
				}
				logger.Info().Str("path", path).Int("resources", len(resources)).Msg("Resource state saved")
				return nil
			},
		})
	}

	stages = append(stages,
		pipeline.Stage{
			Name: "scale-container-apps-to-zero",
			Mode: pipeline.Required,
			Run: func(ctx context.Context) error {
				apps, err := o.containerApps.List(ctx, resourceGroup)
				if err != nil {
					return err
				}
				for _, app := range apps {
					logger.Info().Str("app", app.Name).Msg("Scaling container app to zero")
					if err := o.containerApps.SetReplicas(ctx, resourceGroup, app.Name, 0, 0); err != nil {
						return err
					}
				}
				return nil
			},
		},
		pipeline.Stage{
			Name: "stop-app-services",
			Mode: pipeline.Required,
			Run: func(ctx context.Context) error {
				apps, err := o.webApps.List(ctx, resourceGroup)
				if err != nil {
					return err
				}
				for _, app := range apps {
					logger.Info().Str("app", app.Name).Msg("Stopping app service")
					if err := o.webApps.Stop(ctx, resourceGroup, app.Name); err != nil {
						return err
					}
				}
				return nil
			},
		},
		pipeline.Stage{
			Name: "deallocate-compute",
			Mode: pipeline.BestEffort,
			Run: func(ctx context.Context) error {
				return o.stopCompute(ctx, resourceGroup, &logger)
			},
		},
		pipeline.Stage{
			Name: "stop-database",
			Mode: pipeline.Required,
			Run: func(ctx context.Context) error {
				servers, err := o.postgres.List(ctx, resourceGroup)
				if err != nil {
					return err
				}
				for _, server := range servers {
					logger.Info().Str("server", server).Msg("Stopping database server")
					if err := o.postgres.Stop(ctx, resourceGroup, server); err != nil {
						return err
					}
				}
				return nil
			},
		},
	)

	outcome.Pipeline = pipeline.Run(ctx, &logger, stages)

	details := "All resources stopped."
	if outcome.Failed() {
		details = fmt.Sprintf("Shutdown aborted: %v", outcome.Pipeline.Err)
	} else if warnings := outcome.Pipeline.Warnings(); len(warnings) > 0 {
		details = fmt.Sprintf("Shutdown complete; %d non-critical stage(s) failed.", len(warnings))
	}
	o.notifyOutcome(ctx, fmt.Sprintf("Environment Shutdown: %s", env), env, &outcome, details)

	return outcome
}

// stopCompute pauses AKS clusters and deallocates VMs. A failure on one
// resource is logged and the rest are still attempted; the first error is
// reported so the stage shows up as a warning.
func (o *Orchestrator) stopCompute(ctx context.Context, resourceGroup string, logger *zerolog.Logger) error {
	var firstErr error

	clusters, err := o.clusters.List(ctx, resourceGroup)
	if err != nil {
		firstErr = err
	}
	for _, cluster := range clusters {
		if cluster.PowerState == "Stopped" {
			continue
		}
		logger.Info().Str("cluster", cluster.Name).Msg("Stopping AKS cluster")
		if err := o.clusters.Stop(ctx, resourceGroup, cluster.Name); err != nil {
			logger.Warn().Err(err).Str("cluster", cluster.Name).Msg("Failed to stop cluster")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	vms, err := o.compute.List(ctx, resourceGroup)
	if err != nil && firstErr == nil {
		firstErr = err
	}
	for _, vm := range vms {
		logger.Info().Str("vm", vm).Msg("Deallocating virtual machine")
		if err := o.compute.Deallocate(ctx, resourceGroup, vm); err != nil {
			logger.Warn().Err(err).Str("vm", vm).Msg("Failed to deallocate vm")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
