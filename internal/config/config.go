// Package config loads process configuration from the environment. A .env
// file in the working directory is honoured when present so local runs do
// not need exported variables.
package config

import (
	"os"

	"github.com/joho/godotenv"

	apperrors "github.com/RobertsBrothersCoach/rbc-envops/internal/errors"
)

// Config holds all settings envops reads from the environment.
type Config struct {
	// SubscriptionID is the Azure subscription the target resource groups
	// live in. Required for every command that touches the control plane.
	SubscriptionID string

	// WebhookURL is the chat webhook notifications are posted to.
	// Optional; notification delivery is best-effort and skipped when unset.
	WebhookURL string

	// SnapshotDir is where resource-state snapshot files are written.
	// Defaults to the working directory.
	SnapshotDir string

	// LogFile, when set, tees structured JSON logs into this file in
	// addition to the console.
	LogFile string
}

// Load reads configuration from the environment, loading .env first if one
// exists. Only SubscriptionID is validated here; other fields are optional.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		SubscriptionID: os.Getenv("AZURE_SUBSCRIPTION_ID"),
		WebhookURL:     os.Getenv("TEAMS_WEBHOOK_URL"),
		SnapshotDir:    os.Getenv("ENVOPS_SNAPSHOT_DIR"),
		LogFile:        os.Getenv("ENVOPS_LOG_FILE"),
	}
	if cfg.SnapshotDir == "" {
		cfg.SnapshotDir = "."
	}
	if cfg.SubscriptionID == "" {
		return nil, apperrors.ErrSubscriptionIDRequired
	}
	return cfg, nil
}
