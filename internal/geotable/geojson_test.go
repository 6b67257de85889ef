package geotable

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

func enrichedTable(t *testing.T) *Table {
	t.Helper()
	table, err := FromFeatures([]*geojson.Feature{
		pointFeature(-0.1, 51.5, map[string]any{"name": "stop"}),
	}, "urn:ogc:def:crs:OGC:1.3:CRS84")
	require.NoError(t, err)
	table.Rows[0].Geoms = map[string]geom.T{
		"snapped_geometry": geom.NewPointFlat(geom.XY, []float64{-0.11, 51.51}),
		"lines":            geom.NewLineStringFlat(geom.XY, []float64{-0.1, 51.5, -0.11, 51.51}),
	}
	return table
}

func TestGeoJSONRoundTrip(t *testing.T) {
	table := enrichedTable(t)

	data, err := table.MarshalGeoJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
	assert.Contains(t, string(data), "urn:ogc:def:crs:OGC:1.3:CRS84")

	back, err := UnmarshalGeoJSON(data, "snapped_geometry", "lines")
	require.NoError(t, err)

	assert.Equal(t, table.CRS, back.CRS)
	require.Equal(t, 1, back.Len())
	assert.Equal(t, "stop", back.Rows[0].Attrs["name"])

	snapped, err := back.Point(0, "snapped_geometry")
	require.NoError(t, err)
	assert.InDelta(t, -0.11, snapped.X(), 1e-9)
	assert.InDelta(t, 51.51, snapped.Y(), 1e-9)

	line, ok := back.Rows[0].Geoms["lines"].(*geom.LineString)
	require.True(t, ok)
	assert.Equal(t, []float64{-0.1, 51.5, -0.11, 51.51}, line.FlatCoords())

	// The lifted columns are no longer plain attributes.
	assert.NotContains(t, back.Rows[0].Attrs, "snapped_geometry")
	assert.NotContains(t, back.Rows[0].Attrs, "lines")
}

func TestGeoJSONAuxColumnsStayAttrsWhenUnnamed(t *testing.T) {
	table := enrichedTable(t)

	data, err := table.MarshalGeoJSON()
	require.NoError(t, err)

	back, err := UnmarshalGeoJSON(data)
	require.NoError(t, err)
	assert.Contains(t, back.Rows[0].Attrs, "snapped_geometry")
	assert.Empty(t, back.Rows[0].Geoms)
}

func TestReadWriteFile(t *testing.T) {
	table := enrichedTable(t)
	path := filepath.Join(t.TempDir(), "out.geojson")

	require.NoError(t, table.WriteFile(path))

	back, err := ReadFile(path, "snapped_geometry")
	require.NoError(t, err)
	assert.Equal(t, 1, back.Len())
	assert.Equal(t, table.CRS, back.CRS)
}

func TestUnmarshalMalformed(t *testing.T) {
	_, err := UnmarshalGeoJSON([]byte("not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode collection")
}
