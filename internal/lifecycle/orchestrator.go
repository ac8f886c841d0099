// Package lifecycle orchestrates environment shutdown and startup. Stages
// run through a single pipeline that enforces the dependency ordering and
// the required/best-effort failure policy; outcomes feed the webhook
// notification and the process exit code.
package lifecycle

import (
	"context"
	"time"

	"github.com/juju/clock"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/azure"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/envs"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/notify"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/pipeline"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/scaling"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/snapshot"
)

// InventoryService lists a resource group's contents.
type InventoryService interface {
	List(ctx context.Context, resourceGroup string) ([]azure.Resource, error)
}

// PostgresService manages PostgreSQL flexible servers.
type PostgresService interface {
	List(ctx context.Context, resourceGroup string) ([]string, error)
	Stop(ctx context.Context, resourceGroup, name string) error
	Start(ctx context.Context, resourceGroup, name string) error
	State(ctx context.Context, resourceGroup, name string) (string, error)
}

// WebAppService manages App Service sites.
type WebAppService interface {
	List(ctx context.Context, resourceGroup string) ([]azure.WebApp, error)
	Stop(ctx context.Context, resourceGroup, name string) error
	Start(ctx context.Context, resourceGroup, name string) error
}

// ContainerAppService manages Container Apps.
type ContainerAppService interface {
	List(ctx context.Context, resourceGroup string) ([]azure.ContainerApp, error)
	SetReplicas(ctx context.Context, resourceGroup, name string, min, max int32) error
}

// ComputeService manages virtual machines.
type ComputeService interface {
	List(ctx context.Context, resourceGroup string) ([]string, error)
	Deallocate(ctx context.Context, resourceGroup, name string) error
	Start(ctx context.Context, resourceGroup, name string) error
}

// ClusterService manages AKS clusters.
type ClusterService interface {
	List(ctx context.Context, resourceGroup string) ([]azure.Cluster, error)
	Stop(ctx context.Context, resourceGroup, name string) error
	Start(ctx context.Context, resourceGroup, name string) error
	SetAgentPoolCount(ctx context.Context, resourceGroup, cluster, pool string, count int32) error
}

// SnapshotStore persists resource-state snapshots.
type SnapshotStore interface {
	Save(env envs.Environment, resources []azure.Resource, at time.Time) (string, error)
	LoadLatest(env envs.Environment) ([]azure.Resource, time.Time, error)
}

// Notifier delivers lifecycle events.
type Notifier interface {
	Send(ctx context.Context, event notify.Event) error
}

// Orchestrator builds and runs lifecycle pipelines for one subscription.
type Orchestrator struct {
	inventory     InventoryService
	postgres      PostgresService
	webApps       WebAppService
	containerApps ContainerAppService
	compute       ComputeService
	clusters      ClusterService
	snapshots     SnapshotStore
	notifier      Notifier
	profiles      scaling.ProfileSet
	prober        *Prober
	logger        *zerolog.Logger

	clock         clock.Clock
	readyAttempts int
	readyDelay    time.Duration
	readyMaxDelay time.Duration
	newRunID      func() string
}

// New wires an orchestrator from the Azure client bundle.
func New(clients *azure.Clients, snapshots *snapshot.Store, notifier Notifier, profiles scaling.ProfileSet, logger *zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		inventory:     clients.Inventory,
		postgres:      clients.Postgres,
		webApps:       clients.WebApps,
		containerApps: clients.ContainerApps,
		compute:       clients.VirtualMachines,
		clusters:      clients.Clusters,
		snapshots:     snapshots,
		notifier:      notifier,
		profiles:      profiles,
		prober:        NewProber(),
		logger:        logger,

		clock:         clock.WallClock,
		readyAttempts: 5,
		readyDelay:    10 * time.Second,
		readyMaxDelay: 2 * time.Minute,
		newRunID:      func() string { return ksuid.New().String() },
	}
}

// Outcome is the combined result of a lifecycle run.
type Outcome struct {
	RunID    string
	Pipeline pipeline.Result
	Health   []ProbeResult
	// NotifyErr records a failed notification delivery; it never fails a run.
	NotifyErr error
}

// Failed reports whether a required stage failed.
func (o Outcome) Failed() bool {
	return o.Pipeline.Err != nil
}

// Degraded reports whether the run succeeded but at least one health probe
// did not.
func (o Outcome) Degraded() bool {
	if o.Failed() {
		return false
	}
	for _, p := range o.Health {
		if !p.Healthy {
			return true
		}
	}
	return false
}

// Status derives the tri-state notification status: failure when a required
// stage failed, warnings when best-effort stages or health probes failed,
// success otherwise.
func (o Outcome) Status() notify.Status {
	if o.Failed() {
		return notify.StatusFailure
	}
	if o.Degraded() || len(o.Pipeline.Warnings()) > 0 {
		return notify.StatusWarnings
	}
	return notify.StatusSuccess
}

// notifyOutcome sends the run's notification. Delivery failures are logged
// and recorded on the outcome, never propagated.
func (o *Orchestrator) notifyOutcome(ctx context.Context, title string, env envs.Environment, outcome *Outcome, details string) {
	event := notify.Event{
		Title:       title,
		Environment: env.String(),
		Status:      outcome.Status(),
		Details:     details,
		RunID:       outcome.RunID,
	}
	if err := o.notifier.Send(ctx, event); err != nil {
		outcome.NotifyErr = err
		o.logger.Warn().Err(err).Msg("Failed to deliver notification")
	}
}
