// Package scaling defines the per-environment scaling profiles applied by
// the scale command and by startup when it brings container apps back up.
package scaling

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/envs"
	apperrors "github.com/RobertsBrothersCoach/rbc-envops/internal/errors"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ReplicaBounds are the min/max replica counts for a container app.
type ReplicaBounds struct {
	MinReplicas int32 `yaml:"minReplicas"`
	MaxReplicas int32 `yaml:"maxReplicas"`
}

// AKSProfile sets node counts for a cluster's agent pools.
type AKSProfile struct {
	// NodeCount applies to every pool unless overridden in Pools.
	NodeCount int32            `yaml:"nodeCount"`
	Pools     map[string]int32 `yaml:"pools,omitempty"`
}

// Profile is the scaling configuration for one environment.
type Profile struct {
	ContainerApps ReplicaBounds `yaml:"containerApps"`
	// Apps overrides ContainerApps for individually named apps.
	Apps map[string]ReplicaBounds `yaml:"apps,omitempty"`
	AKS  AKSProfile               `yaml:"aks"`
}

// BoundsFor returns the replica bounds for a named app, falling back to the
// environment-wide default.
func (p Profile) BoundsFor(app string) ReplicaBounds {
	if b, ok := p.Apps[app]; ok {
		return b
	}
	return p.ContainerApps
}

// PoolCount returns the node count for a named agent pool.
func (p Profile) PoolCount(pool string) int32 {
	if n, ok := p.AKS.Pools[pool]; ok {
		return n
	}
	return p.AKS.NodeCount
}

// ProfileSet maps environment names to their profiles.
type ProfileSet struct {
	Environments map[string]Profile `yaml:"environments"`
}

// ForEnvironment resolves the profile for an environment.
func (s ProfileSet) ForEnvironment(env envs.Environment) (Profile, error) {
	if p, ok := s.Environments[env.String()]; ok {
		return p, nil
	}
	if p, ok := s.Environments[env.Short()]; ok {
		return p, nil
	}
	return Profile{}, fmt.Errorf("%w: %s", apperrors.ErrNoScalingProfile, env)
}

// Default returns the profiles compiled into the binary.
func Default() (ProfileSet, error) {
	return parse(defaultsYAML)
}

// Load reads a profile set from a YAML file.
func Load(path string) (ProfileSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ProfileSet{}, fmt.Errorf("failed to read scaling profile %s: %w", path, err)
	}
	set, err := parse(data)
	if err != nil {
		return ProfileSet{}, fmt.Errorf("failed to parse scaling profile %s: %w", path, err)
	}
	return set, nil
}

func parse(data []byte) (ProfileSet, error) {
	var set ProfileSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return ProfileSet{}, err
	}
	if err := set.validate(); err != nil {
		return ProfileSet{}, err
	}
	return set, nil
}

func (s ProfileSet) validate() error {
	for name, p := range s.Environments {
		if _, err := envs.Parse(name); err != nil {
			return fmt.Errorf("scaling profile references %w", err)
		}
		if p.ContainerApps.MinReplicas > p.ContainerApps.MaxReplicas {
			return fmt.Errorf("environment %s: minReplicas %d exceeds maxReplicas %d",
				name, p.ContainerApps.MinReplicas, p.ContainerApps.MaxReplicas)
		}
		for app, b := range p.Apps {
			if b.MinReplicas > b.MaxReplicas {
				return fmt.Errorf("environment %s, app %s: minReplicas %d exceeds maxReplicas %d",
					name, app, b.MinReplicas, b.MaxReplicas)
			}
		}
		if p.AKS.NodeCount < 0 {
			return fmt.Errorf("environment %s: negative node count", name)
		}
	}
	return nil
}
