package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/azure"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/envs"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/scaling"
)

func TestApplyScaling(t *testing.T) {
	f := newFixture()
	f.containerApps.apps = []azure.ContainerApp{
		{Name: "ca-api", MinReplicas: 0, MaxReplicas: 1},
		{Name: "ca-worker", MinReplicas: 1, MaxReplicas: 2},
	}
	f.clusters.clusters = []azure.Cluster{{Name: "aks-main"}}

	profile := scaling.Profile{
		ContainerApps: scaling.ReplicaBounds{MinReplicas: 1, MaxReplicas: 2},
		AKS:           scaling.AKSProfile{NodeCount: 2},
	}

	changes, err := f.orch.ApplyScaling(context.Background(), envs.QA, "rg-tourbus-qa", profile, false)
	assert.NoError(t, err)

	// ca-worker already matches the profile so only ca-api changes, plus
	// the cluster pool resize.
	assert.Len(t, changes, 2)
	assert.Equal(t, []string{
		"containerapp.scale:ca-api:1-2",
		"cluster.pool:aks-main/system:2",
	}, f.log.calls)
}

func TestApplyScalingDryRun(t *testing.T) {
	f := newFixture()
	f.containerApps.apps = []azure.ContainerApp{{Name: "ca-api", MinReplicas: 0, MaxReplicas: 1}}
	f.clusters.clusters = []azure.Cluster{{Name: "aks-main"}}

	profile := scaling.Profile{
		ContainerApps: scaling.ReplicaBounds{MinReplicas: 2, MaxReplicas: 4},
		AKS:           scaling.AKSProfile{NodeCount: 3, Pools: map[string]int32{"user": 5}},
	}

	changes, err := f.orch.ApplyScaling(context.Background(), envs.Production, "rg-tourbus-prod", profile, true)
	assert.NoError(t, err)
	assert.Len(t, changes, 2)
	assert.Empty(t, f.log.calls, "dry run must not touch the control plane")
}

func TestApplyScalingNamedAppOverride(t *testing.T) {
	f := newFixture()
	f.containerApps.apps = []azure.ContainerApp{{Name: "ca-api"}}

	profile := scaling.Profile{
		ContainerApps: scaling.ReplicaBounds{MinReplicas: 1, MaxReplicas: 2},
		Apps: map[string]scaling.ReplicaBounds{
			"ca-api": {MinReplicas: 3, MaxReplicas: 6},
		},
	}

	_, err := f.orch.ApplyScaling(context.Background(), envs.Production, "rg-tourbus-prod", profile, false)
	assert.NoError(t, err)
	assert.Contains(t, f.log.calls, "containerapp.scale:ca-api:3-6")
}
