// Package geotable provides an ordered, CRS-tagged collection of geographic
// records with named auxiliary geometry columns.
package geotable

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Row is a single record: a primary geometry plus named auxiliary geometries
// and scalar attributes.
type Row struct {
	Index    int
	Geometry geom.T
	Geoms    map[string]geom.T
	Attrs    map[string]any
}

// Table is an ordered sequence of rows sharing a coordinate reference system.
// Row order is insertion order; indices are contiguous from zero after
// Renumber or Append.
type Table struct {
	CRS  string
	Rows []Row
}

// New returns an empty table tagged with the given CRS.
func New(crs string) *Table {
	return &Table{CRS: crs}
}

// FromFeatures builds a table from GeoJSON features, tagged with the
// collection's declared CRS. Feature properties become row attributes.
func FromFeatures(features []*geojson.Feature, crs string) (*Table, error) {
	t := New(crs)
	for i, f := range features {
		if f == nil {
			return nil, eris.Errorf("geotable: nil feature at %d", i)
		}
		attrs := make(map[string]any, len(f.Properties))
		for k, v := range f.Properties {
			attrs[k] = v
		}
		t.Rows = append(t.Rows, Row{
			Index:    i,
			Geometry: f.Geometry,
			Attrs:    attrs,
		})
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Append concatenates another table's rows onto t and renumbers the result
// to a contiguous index range. The appended table's CRS is not reconciled;
// t keeps its own.
func (t *Table) Append(other *Table) {
	if other != nil {
		t.Rows = append(t.Rows, other.Rows...)
	}
	t.Renumber()
}

// Renumber rewrites row indices to 0..Len()-1 in current order.
func (t *Table) Renumber() {
	for i := range t.Rows {
		t.Rows[i].Index = i
	}
}

// Clone returns a deep copy of the table. Geometries, auxiliary geometry
// maps, and attribute maps are all copied, so mutating the clone never
// touches the original.
func (t *Table) Clone() *Table {
	out := New(t.CRS)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := Row{
			Index:    r.Index,
			Geometry: cloneGeom(r.Geometry),
		}
		if r.Geoms != nil {
			nr.Geoms = make(map[string]geom.T, len(r.Geoms))
			for k, g := range r.Geoms {
				nr.Geoms[k] = cloneGeom(g)
			}
		}
		if r.Attrs != nil {
			nr.Attrs = make(map[string]any, len(r.Attrs))
			for k, v := range r.Attrs {
				nr.Attrs[k] = v
			}
		}
		out.Rows[i] = nr
	}
	return out
}

// cloneGeom deep-copies the geometry types the table carries. Unknown types
// are returned as-is.
func cloneGeom(g geom.T) geom.T {
	switch s := g.(type) {
	case *geom.Point:
		return s.Clone()
	case *geom.LineString:
		return s.Clone()
	case *geom.Polygon:
		return s.Clone()
	case *geom.MultiPoint:
		return s.Clone()
	case *geom.MultiLineString:
		return s.Clone()
	case *geom.MultiPolygon:
		return s.Clone()
	default:
		return g
	}
}

// Point returns the named geometry column of a row as a point. An empty name
// selects the primary geometry. Missing or non-point geometries are errors
// carrying the row index.
func (t *Table) Point(row int, column string) (*geom.Point, error) {
	if row < 0 || row >= len(t.Rows) {
		return nil, eris.Errorf("geotable: row %d out of range", row)
	}
	r := t.Rows[row]

	var g geom.T
	if column == "" {
		g = r.Geometry
	} else {
		g = r.Geoms[column]
	}
	if g == nil {
		return nil, eris.Errorf("geotable: row %d has no geometry in column %q", row, column)
	}

	p, ok := g.(*geom.Point)
	if !ok {
		return nil, eris.Errorf("geotable: row %d column %q is not a point", row, column)
	}
	return p, nil
}
