package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"
)

// WebApp is an App Service site and the hostname its health endpoint is
// probed on.
type WebApp struct {
	Name     string
	Hostname string
	State    string
}

// WebAppClient manages App Service sites in a resource group.
type WebAppClient struct {
	client *armappservice.WebAppsClient
}

// List returns every web app in the group.
func (c *WebAppClient) List(ctx context.Context, resourceGroup string) ([]WebApp, error) {
	var out []WebApp
	pager := c.client.NewListByResourceGroupPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list web apps in %s: %w", resourceGroup, err)
		}
		for _, site := range page.Value {
			app := WebApp{Name: deref(site.Name)}
			if site.Properties != nil {
				app.Hostname = deref(site.Properties.DefaultHostName)
				app.State = deref(site.Properties.State)
			}
			out = append(out, app)
		}
	}
	return out, nil
}

// Stop stops a web app. The control plane returns synchronously.
func (c *WebAppClient) Stop(ctx context.Context, resourceGroup, name string) error {
	if _, err := c.client.Stop(ctx, resourceGroup, name, nil); err != nil {
		return fmt.Errorf("failed to stop web app %s: %w", name, err)
	}
	return nil
}

// Start starts a web app.
func (c *WebAppClient) Start(ctx context.Context, resourceGroup, name string) error {
	if _, err := c.client.Start(ctx, resourceGroup, name, nil); err != nil {
		return fmt.Errorf("failed to start web app %s: %w", name, err)
	}
	return nil
}
