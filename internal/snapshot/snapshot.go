// Package snapshot persists the resource inventory of an environment to a
// dated JSON file before a shutdown. The file is an audit trail only: the
// startup command reads it back to warn on a resource-count mismatch, never
// as a source of truth.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/azure"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/envs"
	apperrors "github.com/RobertsBrothersCoach/rbc-envops/internal/errors"
)

// Store writes and reads resource-state snapshot files under a directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Filename returns the snapshot file name for an environment on a date,
// e.g. "resource-state-dev-20260830.json".
func Filename(env envs.Environment, at time.Time) string {
	return fmt.Sprintf("resource-state-%s-%s.json", env.Short(), at.Format("20060102"))
}

// Save writes the inventory as a flat JSON list and returns the file path.
func (s *Store) Save(env envs.Environment, resources []azure.Resource, at time.Time) (string, error) {
	if resources == nil {
		resources = []azure.Resource{}
	}
	data, err := json.MarshalIndent(resources, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal resource state: %w", err)
	}

	path := filepath.Join(s.dir, Filename(env, at))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write resource state file: %w", err)
	}
	return path, nil
}

// Load reads the snapshot for an environment on the given date.
func (s *Store) Load(env envs.Environment, at time.Time) ([]azure.Resource, error) {
	path := filepath.Join(s.dir, Filename(env, at))
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, apperrors.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read resource state file: %w", err)
	}

	var resources []azure.Resource
	if err := json.Unmarshal(data, &resources); err != nil {
		return nil, fmt.Errorf("failed to parse resource state file %s: %w", path, err)
	}
	return resources, nil
}

// LoadLatest returns the most recent snapshot for an environment, searching
// the store directory by the dated file-name convention.
func (s *Store) LoadLatest(env envs.Environment) ([]azure.Resource, time.Time, error) {
	pattern := filepath.Join(s.dir, fmt.Sprintf("resource-state-%s-*.json", env.Short()))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to scan for snapshots: %w", err)
	}
	if len(matches) == 0 {
		return nil, time.Time{}, apperrors.ErrSnapshotNotFound
	}

	// Dated file names sort lexicographically; the last match is the newest.
	var latest string
	var latestDate time.Time
	prefix := fmt.Sprintf("resource-state-%s-", env.Short())
	for _, m := range matches {
		base := filepath.Base(m)
		stamp := base[len(prefix) : len(base)-len(".json")]
		at, err := time.Parse("20060102", stamp)
		if err != nil {
			continue
		}
		if latest == "" || at.After(latestDate) {
			latest, latestDate = m, at
		}
	}
	if latest == "" {
		return nil, time.Time{}, apperrors.ErrSnapshotNotFound
	}

	resources, err := s.Load(env, latestDate)
	if err != nil {
		return nil, time.Time{}, err
	}
	return resources, latestDate, nil
}
