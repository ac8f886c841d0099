package di

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/rs/zerolog"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/azure"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/config"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/lifecycle"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/notify"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/override"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/scaling"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/snapshot"
)

func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

func ProvideCredential() (azcore.TokenCredential, error) {
	return azure.NewCredential()
}

func ProvideClients(cfg *config.Config, cred azcore.TokenCredential) (*azure.Clients, error) {
	return azure.NewClients(cfg.SubscriptionID, cred)
}

func ProvideNotifier(cfg *config.Config) *notify.Notifier {
	return notify.NewNotifier(cfg.WebhookURL)
}

func ProvideSnapshotStore(cfg *config.Config) *snapshot.Store {
	return snapshot.NewStore(cfg.SnapshotDir)
}

// ProvideScalingProfiles loads the profile file named at container
// construction, falling back to the compiled-in defaults.
func ProvideScalingProfiles(path ScalingProfilePath) (scaling.ProfileSet, error) {
	if path != "" {
		return scaling.Load(string(path))
	}
	return scaling.Default()
}

func ProvideOverrideMarker(clients *azure.Clients) *override.Marker {
	return override.NewMarker(clients.ResourceGroups)
}

func ProvideOrchestrator(
	clients *azure.Clients,
	snapshots *snapshot.Store,
	notifier *notify.Notifier,
	profiles scaling.ProfileSet,
	logger zerolog.Logger,
) *lifecycle.Orchestrator {
	return lifecycle.New(clients, snapshots, notifier, profiles, &logger)
}
