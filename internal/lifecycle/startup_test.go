package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/azure"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/envs"
	apperrors "github.com/RobertsBrothersCoach/rbc-envops/internal/errors"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/notify"
)

func TestStartupOrdering(t *testing.T) {
	f := newFixture()
	f.postgres.servers = []string{"psql-main"}
	f.clusters.clusters = []azure.Cluster{{Name: "aks-main", PowerState: "Stopped"}}
	f.compute.vms = []string{"vm-jump"}
	f.webApps.apps = []azure.WebApp{{Name: "app-web"}}
	f.containerApps.apps = []azure.ContainerApp{{Name: "ca-api"}}

	outcome := f.orch.Startup(context.Background(), envs.QA, "rg-tourbus-qa", StartupOptions{SkipHealthCheck: true})
	assert.False(t, outcome.Failed())

	// QA profile: container apps come back at 1-2 replicas.
	assert.Equal(t, []string{
		"postgres.start:psql-main",
		"cluster.start:aks-main",
		"vm.start:vm-jump",
		"webapp.start:app-web",
		"containerapp.scale:ca-api:1-2",
	}, f.log.calls, "database must be ready before dependent tiers start")
}

func TestStartupWaitsForDatabaseReady(t *testing.T) {
	f := newFixture()
	f.postgres.servers = []string{"psql-main"}
	f.postgres.states = []string{"Starting", "Starting", azure.StateReady}
	f.webApps.apps = []azure.WebApp{{Name: "app-web"}}

	outcome := f.orch.Startup(context.Background(), envs.Development, "rg-tourbus-dev", StartupOptions{SkipHealthCheck: true})
	assert.False(t, outcome.Failed())
	assert.Contains(t, f.log.calls, "webapp.start:app-web")
}

func TestStartupDatabaseNeverReady(t *testing.T) {
	f := newFixture()
	f.postgres.servers = []string{"psql-main"}
	f.postgres.states = []string{"Starting"}
	f.webApps.apps = []azure.WebApp{{Name: "app-web"}}
	f.containerApps.apps = []azure.ContainerApp{{Name: "ca-api"}}

	outcome := f.orch.Startup(context.Background(), envs.Development, "rg-tourbus-dev", StartupOptions{SkipHealthCheck: true})

	assert.True(t, outcome.Failed())
	assert.ErrorIs(t, outcome.Pipeline.Err, apperrors.ErrDatabaseNotReady)
	assert.NotContains(t, f.log.calls, "webapp.start:app-web", "no dependent tier may start before the database is ready")
	assert.NotContains(t, f.log.calls, "containerapp.scale:ca-api:0-1")
	assert.Equal(t, notify.StatusFailure, outcome.Status())
}

func TestStartupComputeFailureIsNonFatal(t *testing.T) {
	f := newFixture()
	f.postgres.servers = []string{"psql-main"}
	f.clusters.clusters = []azure.Cluster{{Name: "aks-main", PowerState: "Stopped"}}
	f.clusters.startErr = errors.New("quota exceeded")
	f.webApps.apps = []azure.WebApp{{Name: "app-web"}}

	outcome := f.orch.Startup(context.Background(), envs.QA, "rg-tourbus-qa", StartupOptions{SkipHealthCheck: true})

	assert.False(t, outcome.Failed())
	assert.Contains(t, f.log.calls, "webapp.start:app-web", "app services still start after a compute failure")
	assert.Equal(t, notify.StatusWarnings, outcome.Status())
}

func TestStartupScalesPerEnvironmentProfile(t *testing.T) {
	f := newFixture()
	f.containerApps.apps = []azure.ContainerApp{{Name: "ca-api"}}

	outcome := f.orch.Startup(context.Background(), envs.Production, "rg-tourbus-prod", StartupOptions{SkipHealthCheck: true})
	assert.False(t, outcome.Failed())
	assert.Contains(t, f.log.calls, "containerapp.scale:ca-api:2-10")
}

func TestStartupSnapshotMismatchIsInformational(t *testing.T) {
	f := newFixture()
	f.postgres.servers = []string{"psql-main"}
	f.snapshots.hasPrev = true
	f.snapshots.latest = []azure.Resource{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	f.inventory.resources = []azure.Resource{{Name: "a"}}

	outcome := f.orch.Startup(context.Background(), envs.Development, "rg-tourbus-dev", StartupOptions{SkipHealthCheck: true})
	assert.False(t, outcome.Failed())
	assert.Equal(t, notify.StatusSuccess, outcome.Status(), "a count mismatch never degrades the run")
}

func TestOutcomeStatus(t *testing.T) {
	healthy := ProbeResult{Healthy: true}
	sick := ProbeResult{Healthy: false, Status: 503}

	ok := Outcome{Health: []ProbeResult{healthy}}
	assert.Equal(t, notify.StatusSuccess, ok.Status())
	assert.False(t, ok.Degraded())

	degraded := Outcome{Health: []ProbeResult{healthy, sick}}
	assert.Equal(t, notify.StatusWarnings, degraded.Status())
	assert.True(t, degraded.Degraded())
	assert.Equal(t, 1, degraded.failedProbes())
}
