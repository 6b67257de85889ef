package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *SQLiteCatalog {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	c, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() }) //nolint:errcheck
	require.NoError(t, c.Migrate(context.Background()))
	return c
}

func TestSaveAndGetDataset(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	saved, err := c.SaveDataset(ctx, Dataset{
		Name:     "lsoa-centroids",
		Endpoint: "https://services1.arcgis.com/ons/FeatureServer/0/query",
		Params:   `{"f":["geojson"],"resultOffset":["0"]}`,
		CRS:      "urn:ogc:def:crs:OGC:1.3:CRS84",
		Records:  35672,
		Path:     "lsoa.geojson",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.FetchedAt.IsZero())

	got, err := c.GetDataset(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "lsoa-centroids", got.Name)
	assert.Equal(t, 35672, got.Records)
	assert.Equal(t, "urn:ogc:def:crs:OGC:1.3:CRS84", got.CRS)
}

func TestGetDataset_NotFound(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.GetDataset(context.Background(), "missing-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListDatasets_FilterAndLimit(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "a"} {
		_, err := c.SaveDataset(ctx, Dataset{Name: name, Endpoint: "e", Params: "{}", Records: 1, Path: "p"})
		require.NoError(t, err)
	}

	all, err := c.ListDatasets(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyA, err := c.ListDatasets(ctx, Filter{Name: "a"})
	require.NoError(t, err)
	assert.Len(t, onlyA, 2)

	limited, err := c.ListDatasets(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListDatasets_Empty(t *testing.T) {
	c := newTestCatalog(t)

	out, err := c.ListDatasets(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, out)
}
