// Package azure wraps the Azure control-plane clients the lifecycle
// commands need. Each wrapper exposes just the list/stop/start surface the
// orchestration uses so the lifecycle package can be tested against fakes.
package azure

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appcontainers/armappcontainers/v3"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v2"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerservice/armcontainerservice/v6"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/postgresql/armpostgresqlflexibleservers/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// NewCredential returns the ambient Azure credential. DefaultAzureCredential
// covers both developer logins (az cli) and the managed identity used by the
// scheduled automation.
func NewCredential() (azcore.TokenCredential, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain Azure credential: %w", err)
	}
	return cred, nil
}

// Clients bundles the per-service wrappers for a single subscription.
type Clients struct {
	Inventory       *InventoryClient
	ResourceGroups  *ResourceGroupClient
	Postgres        *PostgresClient
	WebApps         *WebAppClient
	ContainerApps   *ContainerAppClient
	VirtualMachines *VirtualMachineClient
	Clusters        *ClusterClient
}

// NewClients constructs every service wrapper against one subscription.
func NewClients(subscriptionID string, cred azcore.TokenCredential) (*Clients, error) {
	resources, err := armresources.NewClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create resources client: %w", err)
	}
	groups, err := armresources.NewResourceGroupsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource groups client: %w", err)
	}
	postgres, err := armpostgresqlflexibleservers.NewServersClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres servers client: %w", err)
	}
	webApps, err := armappservice.NewWebAppsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create web apps client: %w", err)
	}
	containerApps, err := armappcontainers.NewContainerAppsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create container apps client: %w", err)
	}
	vms, err := armcompute.NewVirtualMachinesClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual machines client: %w", err)
	}
	clusters, err := armcontainerservice.NewManagedClustersClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create managed clusters client: %w", err)
	}
	pools, err := armcontainerservice.NewAgentPoolsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent pools client: %w", err)
	}

	return &Clients{
		Inventory:       &InventoryClient{client: resources},
		ResourceGroups:  &ResourceGroupClient{client: groups},
		Postgres:        &PostgresClient{client: postgres},
		WebApps:         &WebAppClient{client: webApps},
		ContainerApps:   &ContainerAppClient{client: containerApps},
		VirtualMachines: &VirtualMachineClient{client: vms},
		Clusters:        &ClusterClient{clusters: clusters, pools: pools},
	}, nil
}
