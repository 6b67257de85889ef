package geotable

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// document is a GeoJSON FeatureCollection extended with the CRS block the
// feature services emit.
type document struct {
	Type     string             `json:"type"`
	CRS      *crsBlock          `json:"crs,omitempty"`
	Features []*geojson.Feature `json:"features"`
}

type crsBlock struct {
	Type       string        `json:"type,omitempty"`
	Properties crsProperties `json:"properties"`
}

type crsProperties struct {
	Name string `json:"name"`
}

// MarshalGeoJSON encodes the table as a FeatureCollection. Auxiliary
// geometry columns are written into feature properties as nested GeoJSON
// geometry objects under their column names.
func (t *Table) MarshalGeoJSON() ([]byte, error) {
	doc := document{
		Type:     "FeatureCollection",
		Features: make([]*geojson.Feature, 0, len(t.Rows)),
	}
	if t.CRS != "" {
		doc.CRS = &crsBlock{Type: "name", Properties: crsProperties{Name: t.CRS}}
	}

	for _, r := range t.Rows {
		props := make(map[string]any, len(r.Attrs)+len(r.Geoms))
		for k, v := range r.Attrs {
			props[k] = v
		}
		for k, g := range r.Geoms {
			raw, err := geojson.Marshal(g)
			if err != nil {
				return nil, eris.Wrapf(err, "geotable: encode row %d column %q", r.Index, k)
			}
			props[k] = json.RawMessage(raw)
		}
		doc.Features = append(doc.Features, &geojson.Feature{
			Geometry:   r.Geometry,
			Properties: props,
		})
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, eris.Wrap(err, "geotable: encode collection")
	}
	return out, nil
}

// UnmarshalGeoJSON decodes a FeatureCollection into a table. Property values
// named in geomCols are interpreted as nested GeoJSON geometries and lifted
// into the row's auxiliary geometry columns.
func UnmarshalGeoJSON(data []byte, geomCols ...string) (*Table, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "geotable: decode collection")
	}

	crs := ""
	if doc.CRS != nil {
		crs = doc.CRS.Properties.Name
	}

	t, err := FromFeatures(doc.Features, crs)
	if err != nil {
		return nil, err
	}

	for i := range t.Rows {
		r := &t.Rows[i]
		for _, col := range geomCols {
			v, ok := r.Attrs[col]
			if !ok {
				continue
			}
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, eris.Wrapf(err, "geotable: row %d re-encode column %q", i, col)
			}
			var g geom.T
			if err := geojson.Unmarshal(raw, &g); err != nil {
				return nil, eris.Wrapf(err, "geotable: row %d decode geometry column %q", i, col)
			}
			if r.Geoms == nil {
				r.Geoms = make(map[string]geom.T)
			}
			r.Geoms[col] = g
			delete(r.Attrs, col)
		}
	}

	return t, nil
}

// WriteFile writes the table as a GeoJSON file.
func (t *Table) WriteFile(path string) error {
	data, err := t.MarshalGeoJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "geotable: write %s", path)
	}
	return nil
}

// ReadFile reads a GeoJSON file into a table, lifting the named property
// columns into auxiliary geometries.
func ReadFile(path string, geomCols ...string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geotable: read %s", path)
	}
	return UnmarshalGeoJSON(data, geomCols...)
}
