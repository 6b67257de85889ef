package mapview

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/datasciencecampus/geosnap/internal/geotable"
)

func enrichedTable(t *testing.T) *geotable.Table {
	t.Helper()
	table, err := geotable.FromFeatures([]*geojson.Feature{
		{
			Geometry:   geom.NewPointFlat(geom.XY, []float64{-0.1, 51.5}),
			Properties: map[string]any{"name": "stop", "snap_dist_m": 42.5},
		},
	}, "EPSG:4326")
	require.NoError(t, err)
	table.Rows[0].Geoms = map[string]geom.T{
		"snapped_geometry": geom.NewPointFlat(geom.XY, []float64{-0.12, 51.52}),
		"lines":            geom.NewLineStringFlat(geom.XY, []float64{-0.1, 51.5, -0.12, 51.52}),
	}
	return table
}

func TestNewAndWriteHTML(t *testing.T) {
	m, err := New(enrichedTable(t), Options{
		SnappedColumn: "snapped_geometry",
		LineColumn:    "lines",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.WriteHTML(&buf))
	html := buf.String()

	// Fixed default center and zoom.
	assert.Contains(t, html, "51.583")
	assert.Contains(t, html, "-0.018")

	// Marker icons for the two point layers.
	assert.Contains(t, html, `"ban"`)
	assert.Contains(t, html, `"person-walking"`)

	// Layer payloads carry the geometries and popup attributes.
	assert.Contains(t, html, "LineString")
	assert.Contains(t, html, "snap_dist_m")
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("L.geoJSON(")))
}

func TestNewCustomView(t *testing.T) {
	m, err := New(enrichedTable(t), Options{
		Zoom:          12,
		SnappedColumn: "snapped_geometry",
		LineColumn:    "lines",
		CenterLat:     53.4,
		CenterLng:     -2.98,
		Title:         "snap check",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.WriteHTML(&buf))
	html := buf.String()

	assert.Contains(t, html, "53.4")
	assert.Contains(t, html, "-2.98")
	assert.Contains(t, html, "<title>snap check</title>")
}

func TestNewMissingColumn(t *testing.T) {
	_, err := New(enrichedTable(t), Options{
		SnappedColumn: "snapped_geometry",
		LineColumn:    "nope",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestWriteFile(t *testing.T) {
	m, err := New(enrichedTable(t), Options{
		SnappedColumn: "snapped_geometry",
		LineColumn:    "lines",
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "map.html")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
}
