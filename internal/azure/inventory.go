package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// Resource is one entry in a resource group's inventory.
type Resource struct {
	Name     string `json:"Name"`
	Type     string `json:"Type"`
	Location string `json:"Location"`
	ID       string `json:"Id"`
}

// InventoryClient lists the resources of a resource group.
type InventoryClient struct {
	client *armresources.Client
}

// List returns every resource in the group.
func (c *InventoryClient) List(ctx context.Context, resourceGroup string) ([]Resource, error) {
	var out []Resource
	pager := c.client.NewListByResourceGroupPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list resources in %s: %w", resourceGroup, err)
		}
		for _, r := range page.Value {
			out = append(out, Resource{
				Name:     deref(r.Name),
				Type:     deref(r.Type),
				Location: deref(r.Location),
				ID:       deref(r.ID),
			})
		}
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
