package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v2"
)

// VirtualMachineClient manages VMs in a resource group.
type VirtualMachineClient struct {
	client *armcompute.VirtualMachinesClient
}

// List returns the names of every VM in the group.
func (c *VirtualMachineClient) List(ctx context.Context, resourceGroup string) ([]string, error) {
	var names []string
	pager := c.client.NewListPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list virtual machines in %s: %w", resourceGroup, err)
		}
		for _, vm := range page.Value {
			names = append(names, deref(vm.Name))
		}
	}
	return names, nil
}

// Deallocate releases a VM's compute so it stops accruing charges.
func (c *VirtualMachineClient) Deallocate(ctx context.Context, resourceGroup, name string) error {
	poller, err := c.client.BeginDeallocate(ctx, resourceGroup, name, nil)
	if err != nil {
		return fmt.Errorf("failed to deallocate vm %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("deallocate of vm %s did not complete: %w", name, err)
	}
	return nil
}

// Start boots a deallocated VM.
func (c *VirtualMachineClient) Start(ctx context.Context, resourceGroup, name string) error {
	poller, err := c.client.BeginStart(ctx, resourceGroup, name, nil)
	if err != nil {
		return fmt.Errorf("failed to start vm %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("start of vm %s did not complete: %w", name, err)
	}
	return nil
}
