package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// ResourceGroupClient reads and writes tags on a resource group. The
// schedule-override marker lives here so the external scheduler can see it
// without any shared storage.
type ResourceGroupClient struct {
	client *armresources.ResourceGroupsClient
}

// GetTag returns the value of a tag, or "" when the tag is absent.
func (c *ResourceGroupClient) GetTag(ctx context.Context, resourceGroup, key string) (string, error) {
	resp, err := c.client.Get(ctx, resourceGroup, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get resource group %s: %w", resourceGroup, err)
	}
	if resp.Tags == nil {
		return "", nil
	}
	return deref(resp.Tags[key]), nil
}

// SetTag writes a tag, preserving the group's other tags. Last writer wins;
// there is no concurrency guard.
func (c *ResourceGroupClient) SetTag(ctx context.Context, resourceGroup, key, value string) error {
	resp, err := c.client.Get(ctx, resourceGroup, nil)
	if err != nil {
		return fmt.Errorf("failed to get resource group %s: %w", resourceGroup, err)
	}
	tags := resp.Tags
	if tags == nil {
		tags = map[string]*string{}
	}
	tags[key] = to.Ptr(value)

	patch := armresources.ResourceGroupPatchable{Tags: tags}
	if _, err := c.client.Update(ctx, resourceGroup, patch, nil); err != nil {
		return fmt.Errorf("failed to update tags on resource group %s: %w", resourceGroup, err)
	}
	return nil
}

// DeleteTag removes a tag if present.
func (c *ResourceGroupClient) DeleteTag(ctx context.Context, resourceGroup, key string) error {
	resp, err := c.client.Get(ctx, resourceGroup, nil)
	if err != nil {
		return fmt.Errorf("failed to get resource group %s: %w", resourceGroup, err)
	}
	if resp.Tags == nil {
		return nil
	}
	if _, ok := resp.Tags[key]; !ok {
		return nil
	}
	delete(resp.Tags, key)

	patch := armresources.ResourceGroupPatchable{Tags: resp.Tags}
	if _, err := c.client.Update(ctx, resourceGroup, patch, nil); err != nil {
		return fmt.Errorf("failed to update tags on resource group %s: %w", resourceGroup, err)
	}
	return nil
}
