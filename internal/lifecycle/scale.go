package lifecycle

import (
	"context"
	"fmt"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/envs"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/scaling"
)

// ScaleChange describes one scaling action, for dry-run display.
type ScaleChange struct {
	Resource string
	Detail   string
}

// ApplyScaling pushes an environment's scaling profile to its container
// apps and AKS agent pools. With dryRun set, the planned changes are
// returned without touching the control plane.
func (o *Orchestrator) ApplyScaling(ctx context.Context, env envs.Environment, resourceGroup string, profile scaling.Profile, dryRun bool) ([]ScaleChange, error) {
	var changes []ScaleChange

	apps, err := o.containerApps.List(ctx, resourceGroup)
	if err != nil {
		return nil, err
	}
	for _, app := range apps {
		bounds := profile.BoundsFor(app.Name)
		if app.MinReplicas == bounds.MinReplicas && app.MaxReplicas == bounds.MaxReplicas {
			continue
		}
		changes = append(changes, ScaleChange{
			Resource: app.Name,
			Detail: fmt.Sprintf("replicas %d-%d -> %d-%d",
				app.MinReplicas, app.MaxReplicas, bounds.MinReplicas, bounds.MaxReplicas),
		})
		if dryRun {
			continue
		}
		o.logger.Info().
			Str("app", app.Name).
			Int32("min", bounds.MinReplicas).
			Int32("max", bounds.MaxReplicas).
			Msg("Applying container app scale bounds")
		if err := o.containerApps.SetReplicas(ctx, resourceGroup, app.Name, bounds.MinReplicas, bounds.MaxReplicas); err != nil {
			return changes, err
		}
	}

	clusters, err := o.clusters.List(ctx, resourceGroup)
	if err != nil {
		return changes, err
	}
	for _, cluster := range clusters {
		pools := profile.AKS.Pools
		if len(pools) == 0 {
			// No named pools in the profile; apply the default count to the
			// conventional system pool.
			pools = map[string]int32{"system": profile.AKS.NodeCount}
		}
		for pool, count := range pools {
			changes = append(changes, ScaleChange{
				Resource: fmt.Sprintf("%s/%s", cluster.Name, pool),
				Detail:   fmt.Sprintf("node count -> %d", count),
			})
			if dryRun {
				continue
			}
			o.logger.Info().
				Str("cluster", cluster.Name).
				Str("pool", pool).
				Int32("count", count).
				Msg("Resizing agent pool")
			if err := o.clusters.SetAgentPoolCount(ctx, resourceGroup, cluster.Name, pool, count); err != nil {
				return changes, err
			}
		}
	}

	return changes, nil
}
