package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/datasciencecampus/geosnap/internal/geotable"
)

func snappedTable(t *testing.T, src, snapped [2]float64) *geotable.Table {
	t.Helper()
	table, err := geotable.FromFeatures([]*geojson.Feature{
		{
			Geometry:   geom.NewPointFlat(geom.XY, []float64{src[0], src[1]}),
			Properties: map[string]any{"name": "stop"},
		},
	}, "EPSG:4326")
	require.NoError(t, err)
	table.Rows[0].Geoms = map[string]geom.T{
		DefaultSnappedColumn: geom.NewPointFlat(geom.XY, []float64{snapped[0], snapped[1]}),
	}
	return table
}

func TestSnapLines_LineGeometry(t *testing.T) {
	table := snappedTable(t, [2]float64{-0.1, 51.5}, [2]float64{-0.12, 51.52})

	out, err := SnapLines(table, Options{})
	require.NoError(t, err)

	line, ok := out.Rows[0].Geoms[DefaultLineColumn].(*geom.LineString)
	require.True(t, ok, "line column should hold a LineString")

	// Exactly the two-point path source -> snapped, in storage (lon/lat) order.
	assert.Equal(t, []float64{-0.1, 51.5, -0.12, 51.52}, line.FlatCoords())
}

func TestSnapLines_Distance(t *testing.T) {
	// Source (0,0) and snapped (0,1) in lon/lat degrees: one degree of
	// latitude, about 111195 m along a great circle.
	table := snappedTable(t, [2]float64{0, 0}, [2]float64{0, 1})

	out, err := SnapLines(table, Options{WithDistance: true})
	require.NoError(t, err)

	dist, ok := out.Rows[0].Attrs[DefaultDistanceColumn].(float64)
	require.True(t, ok, "distance column should hold a float")
	assert.InDelta(t, 111195, dist, 1.0)
}

func TestSnapLines_NoDistanceColumnWithoutFlag(t *testing.T) {
	table := snappedTable(t, [2]float64{0, 0}, [2]float64{0, 1})

	out, err := SnapLines(table, Options{})
	require.NoError(t, err)
	assert.NotContains(t, out.Rows[0].Attrs, DefaultDistanceColumn)
}

func TestSnapLines_DoesNotMutateInput(t *testing.T) {
	table := snappedTable(t, [2]float64{-0.1, 51.5}, [2]float64{-0.12, 51.52})

	_, err := SnapLines(table, Options{WithDistance: true})
	require.NoError(t, err)

	assert.NotContains(t, table.Rows[0].Geoms, DefaultLineColumn)
	assert.NotContains(t, table.Rows[0].Attrs, DefaultDistanceColumn)

	p, err := table.Point(0, "")
	require.NoError(t, err)
	assert.Equal(t, -0.1, p.X())
}

func TestSnapLines_MissingSnappedGeometry(t *testing.T) {
	table, err := geotable.FromFeatures([]*geojson.Feature{
		{Geometry: geom.NewPointFlat(geom.XY, []float64{0, 0})},
	}, "EPSG:4326")
	require.NoError(t, err)

	_, err = SnapLines(table, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0")
	assert.Contains(t, err.Error(), DefaultSnappedColumn)
}

func TestSnapLines_CustomColumnNames(t *testing.T) {
	table := snappedTable(t, [2]float64{1, 2}, [2]float64{3, 4})
	table.Rows[0].Geoms["matched"] = table.Rows[0].Geoms[DefaultSnappedColumn]

	out, err := SnapLines(table, Options{
		SnappedColumn:  "matched",
		LineColumn:     "paths",
		WithDistance:   true,
		DistanceColumn: "meters",
	})
	require.NoError(t, err)
	assert.Contains(t, out.Rows[0].Geoms, "paths")
	assert.Contains(t, out.Rows[0].Attrs, "meters")
}
