package errors

import "errors"

var (
	ErrSubscriptionIDRequired = errors.New("AZURE_SUBSCRIPTION_ID environment variable is required")
	ErrWebhookURLNotSet       = errors.New("TEAMS_WEBHOOK_URL environment variable is not set")
	ErrDatabaseNotReady       = errors.New("database server did not report Ready")
	ErrNoScalingProfile       = errors.New("no scaling profile defined for environment")
	ErrOverrideNotSet         = errors.New("no schedule override marker is set")
	ErrSnapshotNotFound       = errors.New("no resource snapshot found")
	ErrHealthChecksFailed     = errors.New("one or more health checks failed")
)
