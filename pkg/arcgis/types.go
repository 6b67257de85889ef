package arcgis

import (
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/datasciencecampus/geosnap/internal/geotable"
)

// ResultOffsetKey is the query parameter feature services use as the
// pagination cursor.
const ResultOffsetKey = "resultOffset"

// PageState describes how a page reported continuation.
type PageState int

const (
	// PageFinal means the server declared exceededTransferLimit false.
	PageFinal PageState = iota

	// PageTruncated means the server declared more records exist beyond
	// this page.
	PageTruncated

	// PageUnmarked means the exceededTransferLimit property was absent.
	// Feature services drop the property on the last page, so this is
	// treated as graceful completion, but it is indistinguishable from a
	// malformed response and is surfaced as its own state.
	PageUnmarked
)

// String returns the state name for logging.
func (s PageState) String() string {
	switch s {
	case PageFinal:
		return "final"
	case PageTruncated:
		return "truncated"
	case PageUnmarked:
		return "unmarked"
	default:
		return "unknown"
	}
}

// FeatureCollection is the feature-service response body: a GeoJSON
// FeatureCollection extended with a CRS block and pagination properties.
type FeatureCollection struct {
	Type       string             `json:"type"`
	Features   []*geojson.Feature `json:"features"`
	CRS        *CRS               `json:"crs"`
	Properties *PageProperties    `json:"properties"`
}

// CRS is the coordinate-reference-system block of a response.
type CRS struct {
	Type       string        `json:"type,omitempty"`
	Properties CRSProperties `json:"properties"`
}

// CRSProperties carries the CRS identifier string.
type CRSProperties struct {
	Name string `json:"name"`
}

// PageProperties carries the pagination metadata of a response.
// ExceededTransferLimit is a pointer so an absent property is
// distinguishable from an explicit false.
type PageProperties struct {
	ExceededTransferLimit *bool `json:"exceededTransferLimit,omitempty"`
}

// Page is the result of a single-page fetch: the raw parsed collection
// (needed for pagination metadata) and the constructed geometry table.
type Page struct {
	Collection *FeatureCollection
	Table      *geotable.Table
}

// State reports how the page declared continuation.
func (p *Page) State() PageState {
	props := p.Collection.Properties
	if props == nil || props.ExceededTransferLimit == nil {
		return PageUnmarked
	}
	if *props.ExceededTransferLimit {
		return PageTruncated
	}
	return PageFinal
}

// CRSName returns the declared CRS identifier, or empty if the response
// carried none.
func (p *Page) CRSName() string {
	if p.Collection.CRS == nil {
		return ""
	}
	return p.Collection.CRS.Properties.Name
}
