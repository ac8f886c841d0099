package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appcontainers/armappcontainers/v3"
)

// ContainerApp is a Container App and its current scale bounds.
type ContainerApp struct {
	Name        string
	Fqdn        string
	MinReplicas int32
	MaxReplicas int32
}

// ContainerAppClient manages Container Apps in a resource group.
type ContainerAppClient struct {
	client *armappcontainers.ContainerAppsClient
}

// List returns every container app in the group.
func (c *ContainerAppClient) List(ctx context.Context, resourceGroup string) ([]ContainerApp, error) {
	var out []ContainerApp
	pager := c.client.NewListByResourceGroupPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list container apps in %s: %w", resourceGroup, err)
		}
		for _, app := range page.Value {
			entry := ContainerApp{Name: deref(app.Name)}
			if app.Properties != nil {
				if cfg := app.Properties.Configuration; cfg != nil && cfg.Ingress != nil {
					entry.Fqdn = deref(cfg.Ingress.Fqdn)
				}
				if tpl := app.Properties.Template; tpl != nil && tpl.Scale != nil {
					if tpl.Scale.MinReplicas != nil {
						entry.MinReplicas = *tpl.Scale.MinReplicas
					}
					if tpl.Scale.MaxReplicas != nil {
						entry.MaxReplicas = *tpl.Scale.MaxReplicas
					}
				}
			}
			out = append(out, entry)
		}
	}
	return out, nil
}

// SetReplicas patches a container app's scale bounds and waits for the
// update to complete. Scaling min and max to zero stops the app.
func (c *ContainerAppClient) SetReplicas(ctx context.Context, resourceGroup, name string, min, max int32) error {
	patch := armappcontainers.ContainerApp{
		Properties: &armappcontainers.ContainerAppProperties{
			Template: &armappcontainers.Template{
				Scale: &armappcontainers.Scale{
					MinReplicas: to.Ptr(min),
					MaxReplicas: to.Ptr(max),
				},
			},
		},
	}
	poller, err := c.client.BeginUpdate(ctx, resourceGroup, name, patch, nil)
	if err != nil {
		return fmt.Errorf("failed to update container app %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("update of container app %s did not complete: %w", name, err)
	}
	return nil
}
