package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/clock"
	"github.com/rs/zerolog"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/azure"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/envs"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/notify"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/scaling"
)

// callLog records cloud mutations across all fakes in invocation order.
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

type fakePostgres struct {
	log      *callLog
	servers  []string
	states   []string // consumed one per State call; sticks on the last entry
	stateIdx int
	stopErr  error
	startErr error
}

func (f *fakePostgres) List(ctx context.Context, rg string) ([]string, error) {
	return f.servers, nil
}

func (f *fakePostgres) Stop(ctx context.Context, rg, name string) error {
	f.log.add("postgres.stop:%s", name)
	return f.stopErr
}

func (f *fakePostgres) Start(ctx context.Context, rg, name string) error {
	f.log.add("postgres.start:%s", name)
	return f.startErr
}

func (f *fakePostgres) State(ctx context.Context, rg, name string) (string, error) {
	if len(f.states) == 0 {
		return azure.StateReady, nil
	}
	state := f.states[f.stateIdx]
	if f.stateIdx < len(f.states)-1 {
		f.stateIdx++
	}
	return state, nil
}

type fakeWebApps struct {
	log      *callLog
	apps     []azure.WebApp
	stopErr  error
	startErr error
}

func (f *fakeWebApps) List(ctx context.Context, rg string) ([]azure.WebApp, error) {
	return f.apps, nil
}

func (f *fakeWebApps) Stop(ctx context.Context, rg, name string) error {
	f.log.add("webapp.stop:%s", name)
	return f.stopErr
}

func (f *fakeWebApps) Start(ctx context.Context, rg, name string) error {
	f.log.add("webapp.start:%s", name)
	return f.startErr
}

type fakeContainerApps struct {
	log    *callLog
	apps   []azure.ContainerApp
	setErr error
}

func (f *fakeContainerApps) List(ctx context.Context, rg string) ([]azure.ContainerApp, error) {
	return f.apps, nil
}

func (f *fakeContainerApps) SetReplicas(ctx context.Context, rg, name string, min, max int32) error {
	f.log.add("containerapp.scale:%s:%d-%d", name, min, max)
	return f.setErr
}

type fakeCompute struct {
	log           *callLog
	vms           []string
	deallocateErr error
	startErr      error
}

func (f *fakeCompute) List(ctx context.Context, rg string) ([]string, error) {
	return f.vms, nil
}

func (f *fakeCompute) Deallocate(ctx context.Context, rg, name string) error {
	f.log.add("vm.deallocate:%s", name)
	return f.deallocateErr
}

func (f *fakeCompute) Start(ctx context.Context, rg, name string) error {
	f.log.add("vm.start:%s", name)
	return f.startErr
}

type fakeClusters struct {
	log      *callLog
	clusters []azure.Cluster
	stopErr  error
	startErr error
}

func (f *fakeClusters) List(ctx context.Context, rg string) ([]azure.Cluster, error) {
	return f.clusters, nil
}

func (f *fakeClusters) Stop(ctx context.Context, rg, name string) error {
	f.log.add("cluster.stop:%s", name)
	return f.stopErr
}

func (f *fakeClusters) Start(ctx context.Context, rg, name string) error {
	f.log.add("cluster.start:%s", name)
	return f.startErr
}

func (f *fakeClusters) SetAgentPoolCount(ctx context.Context, rg, cluster, pool string, count int32) error {
	f.log.add("cluster.pool:%s/%s:%d", cluster, pool, count)
	return nil
}

type fakeInventory struct {
	resources []azure.Resource
	err       error
}

func (f *fakeInventory) List(ctx context.Context, rg string) ([]azure.Resource, error) {
	return f.resources, f.err
}

type fakeSnapshots struct {
	log     *callLog
	saveErr error
	saved   []azure.Resource
	latest  []azure.Resource
	hasPrev bool
}

func (f *fakeSnapshots) Save(env envs.Environment, resources []azure.Resource, at time.Time) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.log.add("snapshot.save:%d", len(resources))
	f.saved = resources
	return "resource-state-" + env.Short() + ".json", nil
}

func (f *fakeSnapshots) LoadLatest(env envs.Environment) ([]azure.Resource, time.Time, error) {
	if !f.hasPrev {
		return nil, time.Time{}, fmt.Errorf("no snapshot")
	}
	return f.latest, time.Now(), nil
}

type fakeNotifier struct {
	events []notify.Event
	err    error
}

func (f *fakeNotifier) Send(ctx context.Context, event notify.Event) error {
	f.events = append(f.events, event)
	return f.err
}

// fixture bundles an orchestrator wired entirely to fakes.
type fixture struct {
	log           *callLog
	postgres      *fakePostgres
	webApps       *fakeWebApps
	containerApps *fakeContainerApps
	compute       *fakeCompute
	clusters      *fakeClusters
	inventory     *fakeInventory
	snapshots     *fakeSnapshots
	notifier      *fakeNotifier
	orch          *Orchestrator
}

func newFixture() *fixture {
	log := &callLog{}
	f := &fixture{
		log:           log,
		postgres:      &fakePostgres{log: log},
		webApps:       &fakeWebApps{log: log},
		containerApps: &fakeContainerApps{log: log},
		compute:       &fakeCompute{log: log},
		clusters:      &fakeClusters{log: log},
		inventory:     &fakeInventory{},
		snapshots:     &fakeSnapshots{log: log},
		notifier:      &fakeNotifier{},
	}

	logger := zerolog.Nop()
	profiles, err := scaling.Default()
	if err != nil {
		panic(err)
	}
	f.orch = &Orchestrator{
		inventory:     f.inventory,
		postgres:      f.postgres,
		webApps:       f.webApps,
		containerApps: f.containerApps,
		compute:       f.compute,
		clusters:      f.clusters,
		snapshots:     f.snapshots,
		notifier:      f.notifier,
		profiles:      profiles,
		prober:        NewProber(),
		logger:        &logger,

		clock:         clock.WallClock,
		readyAttempts: 3,
		readyDelay:    time.Millisecond,
		readyMaxDelay: 4 * time.Millisecond,
		newRunID:      func() string { return "run-test" },
	}
	return f
}
