package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/postgresql/armpostgresqlflexibleservers/v4"
)

// PostgresClient manages PostgreSQL flexible servers in a resource group.
type PostgresClient struct {
	client *armpostgresqlflexibleservers.ServersClient
}

// List returns the names of every flexible server in the group.
func (c *PostgresClient) List(ctx context.Context, resourceGroup string) ([]string, error) {
	var names []string
	pager := c.client.NewListByResourceGroupPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list postgres servers in %s: %w", resourceGroup, err)
		}
		for _, s := range page.Value {
			names = append(names, deref(s.Name))
		}
	}
	return names, nil
}

// Stop stops a flexible server and waits for the operation to complete.
func (c *PostgresClient) Stop(ctx context.Context, resourceGroup, name string) error {
	poller, err := c.client.BeginStop(ctx, resourceGroup, name, nil)
	if err != nil {
		return fmt.Errorf("failed to stop postgres server %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("stop of postgres server %s did not complete: %w", name, err)
	}
	return nil
}

// Start starts a flexible server and waits for the operation to complete.
// Completion of the ARM operation does not guarantee the server reports
// Ready; callers poll State for that.
func (c *PostgresClient) Start(ctx context.Context, resourceGroup, name string) error {
	poller, err := c.client.BeginStart(ctx, resourceGroup, name, nil)
	if err != nil {
		return fmt.Errorf("failed to start postgres server %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("start of postgres server %s did not complete: %w", name, err)
	}
	return nil
}

// State returns the server's reported state, e.g. "Ready" or "Stopped".
func (c *PostgresClient) State(ctx context.Context, resourceGroup, name string) (string, error) {
	resp, err := c.client.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get postgres server %s: %w", name, err)
	}
	if resp.Properties == nil || resp.Properties.State == nil {
		return "", nil
	}
	return string(*resp.Properties.State), nil
}

// StateReady is the flexible-server state that indicates the database is
// accepting connections.
const StateReady = string(armpostgresqlflexibleservers.ServerStateReady)
