package lifecycle

import (
	"context"
	"fmt"

	"github.com/juju/retry"
	"github.com/rs/zerolog"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/azure"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/envs"
	apperrors "github.com/RobertsBrothersCoach/rbc-envops/internal/errors"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/pipeline"
)

// StartupOptions tune a startup run.
type StartupOptions struct {
	// SkipHealthCheck disables the post-start endpoint probes.
	SkipHealthCheck bool
}

// Startup brings an environment back in reverse dependency order: the
// database first (with a readiness wait), then generic compute, app
// services, and finally container apps scaled to the environment's profile.
// Health probes run last; their failures mark the run degraded but never
// abort it.
func (o *Orchestrator) Startup(ctx context.Context, env envs.Environment, resourceGroup string, opts StartupOptions) Outcome {
	outcome := Outcome{RunID: o.newRunID()}
	logger := o.logger.With().
		Str("run", outcome.RunID).
		Str("environment", env.String()).
		Str("resource_group", resourceGroup).
		Logger()

	stages := []pipeline.Stage{
		{
			Name: "start-database",
			Mode: pipeline.Required,
			Run: func(ctx context.Context) error {
				servers, err := o.postgres.List(ctx, resourceGroup)
				if err != nil {
					return err
				}
				for _, server := range servers {
					logger.Info().Str("server", server).Msg("Starting database server")
					if err := o.postgres.Start(ctx, resourceGroup, server); err != nil {
						return err
					}
					if err := o.waitDatabaseReady(ctx, resourceGroup, server, &logger); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Name: "start-compute",
			Mode: pipeline.BestEffort,
			Run: func(ctx context.Context) error {
				return o.startCompute(ctx, resourceGroup, &logger)
			},
		},
		{
			Name: "start-app-services",
			Mode: pipeline.Required,
			Run: func(ctx context.Context) error {
				apps, err := o.webApps.List(ctx, resourceGroup)
				if err != nil {
					return err
				}
				for _, app := range apps {
					logger.Info().Str("app", app.Name).Msg("Starting app service")
					if err := o.webApps.Start(ctx, resourceGroup, app.Name); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Name: "scale-container-apps",
			Mode: pipeline.Required,
			Run: func(ctx context.Context) error {
				profile, err := o.profiles.ForEnvironment(env)
				if err != nil {
					return err
				}
				apps, err := o.containerApps.List(ctx, resourceGroup)
				if err != nil {
					return err
				}
				for _, app := range apps {
					bounds := profile.BoundsFor(app.Name)
					logger.Info().
						Str("app", app.Name).
						Int32("min", bounds.MinReplicas).
						Int32("max", bounds.MaxReplicas).
						Msg("Scaling container app up")
					if err := o.containerApps.SetReplicas(ctx, resourceGroup, app.Name, bounds.MinReplicas, bounds.MaxReplicas); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}

	outcome.Pipeline = pipeline.Run(ctx, &logger, stages)

	if !outcome.Failed() {
		o.validateSnapshot(ctx, env, resourceGroup, &logger)

		if !opts.SkipHealthCheck {
			endpoints := o.discoverEndpoints(ctx, resourceGroup, &logger)
			outcome.Health = o.prober.Probe(ctx, endpoints, &logger)
		}
	}

	details := "All resources started."
	switch {
	case outcome.Failed():
		details = fmt.Sprintf("Startup aborted: %v", outcome.Pipeline.Err)
	case outcome.Degraded():
		details = fmt.Sprintf("Environment started but %d health check(s) failed.", outcome.failedProbes())
	case len(outcome.Pipeline.Warnings()) > 0:
		details = fmt.Sprintf("Environment started; %d non-critical stage(s) failed.", len(outcome.Pipeline.Warnings()))
	}
	o.notifyOutcome(ctx, fmt.Sprintf("Environment Startup: %s", env), env, &outcome, details)

	return outcome
}

func (o Outcome) failedProbes() int {
	n := 0
	for _, p := range o.Health {
		if !p.Healthy {
			n++
		}
	}
	return n
}

// waitDatabaseReady polls the server state with exponential backoff until it
// reports Ready or the attempt budget runs out.
func (o *Orchestrator) waitDatabaseReady(ctx context.Context, resourceGroup, name string, logger *zerolog.Logger) error {
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			state, err := o.postgres.State(ctx, resourceGroup, name)
			if err != nil {
				return err
			}
			if state != azure.StateReady {
				return fmt.Errorf("%w: %s reports %q", apperrors.ErrDatabaseNotReady, name, state)
			}
			logger.Info().Str("server", name).Msg("Database server is ready")
			return nil
		},
		IsFatalError: func(err error) bool {
			return ctx.Err() != nil
		},
		NotifyFunc: func(err error, attempt int) {
			logger.Warn().Err(err).Int("attempt", attempt).Str("server", name).Msg("Database not ready yet")
		},
		Attempts:    o.readyAttempts,
		Delay:       o.readyDelay,
		MaxDelay:    o.readyMaxDelay,
		BackoffFunc: retry.DoubleDelay,
		Clock:       o.clock,
	})
	if retry.IsAttemptsExceeded(err) || retry.IsDurationExceeded(err) {
		return fmt.Errorf("database %s not ready after %d attempts: %w", name, o.readyAttempts, retry.LastError(err))
	}
	return err
}

// startCompute resumes AKS clusters and VMs. Failures are logged per
// resource and the first one is returned so the stage is recorded as a
// warning without blocking the rest of startup.
func (o *Orchestrator) startCompute(ctx context.Context, resourceGroup string, logger *zerolog.Logger) error {
	var firstErr error

	clusters, err := o.clusters.List(ctx, resourceGroup)
	if err != nil {
		firstErr = err
	}
	for _, cluster := range clusters {
		if cluster.PowerState == "Running" {
			continue
		}
		logger.Info().Str("cluster", cluster.Name).Msg("Starting AKS cluster")
		if err := o.clusters.Start(ctx, resourceGroup, cluster.Name); err != nil {
			logger.Warn().Err(err).Str("cluster", cluster.Name).Msg("Failed to start cluster")
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
		logger.Info().Str("vm", vm).Msg("Starting virtual machine")
		if err := o.compute.Start(ctx, resourceGroup, vm); err != nil {
			logger.Warn().Err(err).Str("vm", vm).Msg("Failed to start vm")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// validateSnapshot compares the live inventory against the latest shutdown
// snapshot. Informational only; a mismatch is just a log line.
func (o *Orchestrator) validateSnapshot(ctx context.Context, env envs.Environment, resourceGroup string, logger *zerolog.Logger) {
	saved, takenAt, err := o.snapshots.LoadLatest(env)
	if err != nil {
		logger.Debug().Err(err).Msg("No snapshot to validate against")
		return
	}
	current, err := o.inventory.List(ctx, resourceGroup)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to list resources for snapshot validation")
		return
	}
	if len(current) != len(saved) {
		logger.Warn().
			Int("snapshot", len(saved)).
			Int("current", len(current)).
			Time("snapshot_taken", takenAt).
			Msg("Resource count differs from last snapshot")
	}
}

// discoverEndpoints collects the /health URLs of every web app and
// ingress-exposed container app in the group.
func (o *Orchestrator) discoverEndpoints(ctx context.Context, resourceGroup string, logger *zerolog.Logger) []Endpoint {
	var endpoints []Endpoint

	webApps, err := o.webApps.List(ctx, resourceGroup)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to list web apps for health checks")
	}
	for _, app := range webApps {
		if app.Hostname == "" {
			continue
		}
		endpoints = append(endpoints, Endpoint{
			Name: app.Name,
			URL:  fmt.Sprintf("https://%s/health", app.Hostname),
		})
	}

	containerApps, err := o.containerApps.List(ctx, resourceGroup)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to list container apps for health checks")
	}
	for _, app := range containerApps {
		if app.Fqdn == "" {
			continue
		}
		endpoints = append(endpoints, Endpoint{
			Name: app.Name,
			URL:  fmt.Sprintf("https://%s/health", app.Fqdn),
		})
	}

	return endpoints
}
