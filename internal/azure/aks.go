package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerservice/armcontainerservice/v6"
)

// Cluster is an AKS cluster and its power state.
type Cluster struct {
	Name       string
	PowerState string
}

// ClusterClient manages AKS clusters and their agent pools.
type ClusterClient struct {
	clusters *armcontainerservice.ManagedClustersClient
	pools    *armcontainerservice.AgentPoolsClient
}

// List returns every managed cluster in the group.
func (c *ClusterClient) List(ctx context.Context, resourceGroup string) ([]Cluster, error) {
	var out []Cluster
	pager := c.clusters.NewListByResourceGroupPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list clusters in %s: %w", resourceGroup, err)
		}
		for _, mc := range page.Value {
			entry := Cluster{Name: deref(mc.Name)}
			if mc.Properties != nil && mc.Properties.PowerState != nil && mc.Properties.PowerState.Code != nil {
				entry.PowerState = string(*mc.Properties.PowerState.Code)
			}
			out = append(out, entry)
		}
	}
	return out, nil
}

// Stop pauses a cluster's control plane and agent nodes.
func (c *ClusterClient) Stop(ctx context.Context, resourceGroup, name string) error {
	poller, err := c.clusters.BeginStop(ctx, resourceGroup, name, nil)
	if err != nil {
		return fmt.Errorf("failed to stop cluster %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("stop of cluster %s did not complete: %w", name, err)
	}
	return nil
}

// Start resumes a stopped cluster.
func (c *ClusterClient) Start(ctx context.Context, resourceGroup, name string) error {
	poller, err := c.clusters.BeginStart(ctx, resourceGroup, name, nil)
	if err != nil {
		return fmt.Errorf("failed to start cluster %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("start of cluster %s did not complete: %w", name, err)
	}
	return nil
}

// SetAgentPoolCount resizes a cluster's agent pool to the given node count.
func (c *ClusterClient) SetAgentPoolCount(ctx context.Context, resourceGroup, cluster, pool string, count int32) error {
	current, err := c.pools.Get(ctx, resourceGroup, cluster, pool, nil)
	if err != nil {
		return fmt.Errorf("failed to get agent pool %s/%s: %w", cluster, pool, err)
	}
	if current.Properties == nil {
		return fmt.Errorf("agent pool %s/%s has no properties", cluster, pool)
	}
	current.Properties.Count = to.Ptr(count)

	poller, err := c.pools.BeginCreateOrUpdate(ctx, resourceGroup, cluster, pool, current.AgentPool, nil)
	if err != nil {
		return fmt.Errorf("failed to resize agent pool %s/%s: %w", cluster, pool, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("resize of agent pool %s/%s did not complete: %w", cluster, pool, err)
	}
	return nil
}
