package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/azure"
	"github.com/RobertsBrothersCoach/rbc-envops/internal/envs"
	apperrors "github.com/RobertsBrothersCoach/rbc-envops/internal/errors"
)

func TestFilename(t *testing.T) {
	at := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "resource-state-dev-20260830.json", Filename(envs.Development, at))
	assert.Equal(t, "resource-state-qa-20260830.json", Filename(envs.QA, at))
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	at := time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)

	resources := []azure.Resource{
		{
			Name:     "psql-tourbus-dev",
			Type:     "Microsoft.DBforPostgreSQL/flexibleServers",
			Location: "eastus2",
			ID:       "/subscriptions/sub/resourceGroups/rg-tourbus-dev/providers/Microsoft.DBforPostgreSQL/flexibleServers/psql-tourbus-dev",
		},
		{
			Name:     "app-tourbus-dev",
			Type:     "Microsoft.Web/sites",
			Location: "eastus2",
			ID:       "/subscriptions/sub/resourceGroups/rg-tourbus-dev/providers/Microsoft.Web/sites/app-tourbus-dev",
		},
	}

	path, err := store.Save(envs.Development, resources, at)
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "resource-state-dev-20260830.json"), path)

	// The on-disk shape is a flat list with the expected keys.
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	var raw []map[string]any
	assert.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, 2)
	assert.Contains(t, raw[0], "Name")
	assert.Contains(t, raw[0], "Type")
	assert.Contains(t, raw[0], "Location")
	assert.Contains(t, raw[0], "Id")

	loaded, err := store.Load(envs.Development, at)
	assert.NoError(t, err)
	assert.Equal(t, resources, loaded)
}

func TestSaveEmptyInventory(t *testing.T) {
	store := NewStore(t.TempDir())
	at := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	path, err := store.Save(envs.QA, nil, at)
	assert.NoError(t, err)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Load(envs.Production, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrSnapshotNotFound)
}

func TestLoadLatest(t *testing.T) {
	store := NewStore(t.TempDir())

	older := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	_, err := store.Save(envs.Development, []azure.Resource{{Name: "old"}}, older)
	assert.NoError(t, err)
	_, err = store.Save(envs.Development, []azure.Resource{{Name: "new"}, {Name: "newer"}}, newer)
	assert.NoError(t, err)

	resources, at, err := store.LoadLatest(envs.Development)
	assert.NoError(t, err)
	assert.Equal(t, newer, at)
	assert.Len(t, resources, 2)
}

func TestLoadLatestNone(t *testing.T) {
	store := NewStore(t.TempDir())
	_, _, err := store.LoadLatest(envs.Development)
	assert.ErrorIs(t, err, apperrors.ErrSnapshotNotFound)
}
