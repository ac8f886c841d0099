// Package override manages the schedule-override marker: a timestamp tag on
// the environment's resource group that tells the external scheduler to skip
// its next automatic shutdown or startup. Writes are last-writer-wins; the
// automation that reads the marker runs serially, so no guard is needed.
package override

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/RobertsBrothersCoach/rbc-envops/internal/errors"
)

// TagKey is the resource-group tag the marker is stored under.
const TagKey = "envops-override-until"

// TagStore reads and writes resource group tags.
type TagStore interface {
	GetTag(ctx context.Context, resourceGroup, key string) (string, error)
	SetTag(ctx context.Context, resourceGroup, key, value string) error
	DeleteTag(ctx context.Context, resourceGroup, key string) error
}

// Marker manages the override tag on one resource group.
type Marker struct {
	store TagStore
	now   func() time.Time
}

// NewMarker returns a marker backed by the given tag store.
func NewMarker(store TagStore) *Marker {
	return &Marker{store: store, now: time.Now}
}

// Set writes an override expiring at the given instant, clobbering any
// existing marker.
func (m *Marker) Set(ctx context.Context, resourceGroup string, until time.Time) error {
	value := until.UTC().Format(time.RFC3339)
	if err := m.store.SetTag(ctx, resourceGroup, TagKey, value); err != nil {
		return fmt.Errorf("failed to set override marker: %w", err)
	}
	return nil
}

// Clear removes the marker. Clearing an absent marker is a no-op.
func (m *Marker) Clear(ctx context.Context, resourceGroup string) error {
	if err := m.store.DeleteTag(ctx, resourceGroup, TagKey); err != nil {
		return fmt.Errorf("failed to clear override marker: %w", err)
	}
	return nil
}

// Get returns the marker's expiry. ErrOverrideNotSet is returned when no
// marker exists or the stored value does not parse.
func (m *Marker) Get(ctx context.Context, resourceGroup string) (time.Time, error) {
	value, err := m.store.GetTag(ctx, resourceGroup, TagKey)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read override marker: %w", err)
	}
	if value == "" {
		return time.Time{}, apperrors.ErrOverrideNotSet
	}
	until, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperrors.ErrOverrideNotSet
	}
	return until, nil
}

// Active reports whether an unexpired marker exists.
func (m *Marker) Active(ctx context.Context, resourceGroup string) (bool, time.Time, error) {
	until, err := m.Get(ctx, resourceGroup)
	if errors.Is(err, apperrors.ErrOverrideNotSet) {
		return false, time.Time{}, nil
	}
	if err != nil {
		return false, time.Time{}, err
	}
	return m.now().Before(until), until, nil
}
