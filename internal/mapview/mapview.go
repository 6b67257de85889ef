// Package mapview renders an enriched geometry table as an interactive
// Leaflet map with marker layers for original and snapped points and a path
// layer for the connecting lines.
package mapview

import (
	"encoding/json"
	"html/template"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/datasciencecampus/geosnap/internal/geotable"
)

// Default view parameters. The map is centered on a fixed coordinate
// regardless of the data extent.
const (
	DefaultCenterLat = 51.583
	DefaultCenterLng = -0.018
	DefaultZoom      = 9.0
)

// Options configures the rendered map.
type Options struct {
	// Zoom is the initial zoom level. Defaults to DefaultZoom.
	Zoom float64

	// SnappedColumn names the auxiliary column with the snapped points.
	SnappedColumn string

	// LineColumn names the auxiliary column with the connecting lines.
	LineColumn string

	// CenterLat/CenterLng override the fixed map center.
	CenterLat float64
	CenterLng float64

	// Title is the HTML document title.
	Title string
}

// Map is a renderable three-layer map document.
type Map struct {
	title     string
	centerLat float64
	centerLng float64
	zoom      float64
	points    template.JS
	snapped   template.JS
	lines     template.JS
}

// New builds a map from an enriched table. All rows are assumed to carry
// the named snapped and line geometries.
func New(t *geotable.Table, opts Options) (*Map, error) {
	if opts.Zoom == 0 {
		opts.Zoom = DefaultZoom
	}
	if opts.CenterLat == 0 && opts.CenterLng == 0 {
		opts.CenterLat = DefaultCenterLat
		opts.CenterLng = DefaultCenterLng
	}
	if opts.Title == "" {
		opts.Title = "geosnap"
	}

	points, err := layerJSON(t, "")
	if err != nil {
		return nil, err
	}
	snapped, err := layerJSON(t, opts.SnappedColumn)
	if err != nil {
		return nil, err
	}
	lines, err := layerJSON(t, opts.LineColumn)
	if err != nil {
		return nil, err
	}

	return &Map{
		title:     opts.Title,
		centerLat: opts.CenterLat,
		centerLng: opts.CenterLng,
		zoom:      opts.Zoom,
		points:    points,
		snapped:   snapped,
		lines:     lines,
	}, nil
}

// layerJSON marshals one geometry column of the table as a GeoJSON
// FeatureCollection, carrying scalar row attributes for popups.
func layerJSON(t *geotable.Table, column string) (template.JS, error) {
	type feature struct {
		Type       string          `json:"type"`
		Geometry   json.RawMessage `json:"geometry"`
		Properties map[string]any  `json:"properties"`
	}
	type collection struct {
		Type     string    `json:"type"`
		Features []feature `json:"features"`
	}

	fc := collection{Type: "FeatureCollection", Features: make([]feature, 0, t.Len())}
	for _, r := range t.Rows {
		var g geom.T
		if column == "" {
			g = r.Geometry
		} else {
			g = r.Geoms[column]
		}
		if g == nil {
			return "", eris.Errorf("mapview: row %d has no geometry in column %q", r.Index, column)
		}

		raw, err := geojson.Marshal(g)
		if err != nil {
			return "", eris.Wrapf(err, "mapview: encode row %d column %q", r.Index, column)
		}

		props := make(map[string]any, len(r.Attrs))
		for k, v := range r.Attrs {
			if _, isRaw := v.(json.RawMessage); isRaw {
				continue
			}
			props[k] = v
		}

		fc.Features = append(fc.Features, feature{
			Type:       "Feature",
			Geometry:   raw,
			Properties: props,
		})
	}

	out, err := json.Marshal(fc)
	if err != nil {
		return "", eris.Wrapf(err, "mapview: encode layer %q", column)
	}
	return template.JS(out), nil
}

// WriteHTML renders the map as a standalone HTML document.
func (m *Map) WriteHTML(w io.Writer) error {
	data := templateData{
		Title:     m.title,
		CenterLat: m.centerLat,
		CenterLng: m.centerLng,
		Zoom:      m.zoom,
		Points:    m.points,
		Snapped:   m.snapped,
		Lines:     m.lines,
	}
	if err := mapTemplate.Execute(w, data); err != nil {
		return eris.Wrap(err, "mapview: render")
	}
	return nil
}

// WriteFile renders the map to an HTML file.
func (m *Map) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "mapview: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	if err := m.WriteHTML(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "mapview: close %s", path)
	}
	return nil
}
