// Package enrich derives line geometries and great-circle distances between
// original and snapped point columns of a geometry table.
package enrich

import (
	"github.com/twpayne/go-geom"

	"github.com/datasciencecampus/geosnap/internal/geotable"
)

// Default column names, matching the fetch/enrich pipeline convention.
const (
	DefaultSnappedColumn  = "snapped_geometry"
	DefaultLineColumn     = "lines"
	DefaultDistanceColumn = "snap_dist_m"
)

// Options names the columns SnapLines reads and writes.
type Options struct {
	// SourceColumn is the auxiliary column holding the original point.
	// Empty selects the table's primary geometry.
	SourceColumn string

	// SnappedColumn holds the corrected point. Defaults to
	// DefaultSnappedColumn.
	SnappedColumn string

	// LineColumn receives the derived two-point line. Defaults to
	// DefaultLineColumn.
	LineColumn string

	// WithDistance also computes the great-circle distance between the two
	// points.
	WithDistance bool

	// DistanceColumn receives the distance in meters. Defaults to
	// DefaultDistanceColumn.
	DistanceColumn string
}

func (o *Options) applyDefaults() {
	if o.SnappedColumn == "" {
		o.SnappedColumn = DefaultSnappedColumn
	}
	if o.LineColumn == "" {
		o.LineColumn = DefaultLineColumn
	}
	if o.DistanceColumn == "" {
		o.DistanceColumn = DefaultDistanceColumn
	}
}

// SnapLines returns a copy of the table with a line geometry column added
// per row, the two-point path from the source point to the snapped point,
// and optionally a scalar column with the great-circle distance in meters
// between them. The input table is never modified.
//
// Geometries are stored longitude-first; the distance calculation takes
// latitude-first, so each point's coordinate order is reversed for the
// distance only. A row missing either point fails the whole call.
func SnapLines(t *geotable.Table, opts Options) (*geotable.Table, error) {
	opts.applyDefaults()

	out := t.Clone()
	for i := range out.Rows {
		src, err := out.Point(i, opts.SourceColumn)
		if err != nil {
			return nil, err
		}
		snapped, err := out.Point(i, opts.SnappedColumn)
		if err != nil {
			return nil, err
		}

		line := geom.NewLineStringFlat(geom.XY, []float64{
			src.X(), src.Y(),
			snapped.X(), snapped.Y(),
		})

		row := &out.Rows[i]
		if row.Geoms == nil {
			row.Geoms = make(map[string]geom.T)
		}
		row.Geoms[opts.LineColumn] = line

		if opts.WithDistance {
			if row.Attrs == nil {
				row.Attrs = make(map[string]any)
			}
			row.Attrs[opts.DistanceColumn] = Haversine(
				src.Y(), src.X(),
				snapped.Y(), snapped.X(),
			)
		}
	}

	return out, nil
}
