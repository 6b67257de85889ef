// Package catalog records fetched datasets in a local SQLite database.
package catalog

import (
	"context"
	"time"
)

// Dataset describes one completed paginated fetch.
type Dataset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Endpoint  string    `json:"endpoint"`
	Params    string    `json:"params"` // JSON-encoded query parameters
	CRS       string    `json:"crs"`
	Records   int       `json:"records"`
	Path      string    `json:"path"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Filter specifies criteria for listing datasets.
type Filter struct {
	Name  string
	Limit int
}

// Catalog defines the persistence interface for fetch records.
type Catalog interface {
	SaveDataset(ctx context.Context, d Dataset) (*Dataset, error)
	GetDataset(ctx context.Context, id string) (*Dataset, error)
	ListDatasets(ctx context.Context, filter Filter) ([]Dataset, error)

	Migrate(ctx context.Context) error
	Close() error
}
