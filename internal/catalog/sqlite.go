package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteCatalog implements Catalog using modernc.org/sqlite.
type SQLiteCatalog struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "catalog: exec %s", pragma)
		}
	}
	return &SQLiteCatalog{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS datasets (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	endpoint   TEXT NOT NULL,
	params     TEXT NOT NULL,
	crs        TEXT NOT NULL DEFAULT '',
	records    INTEGER NOT NULL,
	path       TEXT NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_datasets_name ON datasets(name);
CREATE INDEX IF NOT EXISTS idx_datasets_fetched_at ON datasets(fetched_at);
`

// Migrate creates the catalog schema.
func (c *SQLiteCatalog) Migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "catalog: migrate")
}

// Close closes the underlying database.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

// SaveDataset inserts a fetch record, assigning an id and timestamp.
func (c *SQLiteCatalog) SaveDataset(ctx context.Context, d Dataset) (*Dataset, error) {
	d.ID = uuid.New().String()
	d.FetchedAt = time.Now().UTC()

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO datasets (id, name, endpoint, params, crs, records, path, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Endpoint, d.Params, d.CRS, d.Records, d.Path, d.FetchedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: insert dataset")
	}
	return &d, nil
}

// GetDataset looks up a dataset by id.
func (c *SQLiteCatalog) GetDataset(ctx context.Context, id string) (*Dataset, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, name, endpoint, params, crs, records, path, fetched_at
		 FROM datasets WHERE id = ?`, id,
	)
	var d Dataset
	if err := row.Scan(&d.ID, &d.Name, &d.Endpoint, &d.Params, &d.CRS, &d.Records, &d.Path, &d.FetchedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, eris.Errorf("catalog: dataset %s not found", id)
		}
		return nil, eris.Wrapf(err, "catalog: get dataset %s", id)
	}
	return &d, nil
}

// ListDatasets returns datasets matching the filter, newest first.
func (c *SQLiteCatalog) ListDatasets(ctx context.Context, filter Filter) ([]Dataset, error) {
	query := `SELECT id, name, endpoint, params, crs, records, path, fetched_at FROM datasets WHERE 1=1`
	var args []any

	if filter.Name != "" {
		query += ` AND name = ?`
		args = append(args, filter.Name)
	}
	query += ` ORDER BY fetched_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: list datasets")
	}
	defer rows.Close() //nolint:errcheck

	var out []Dataset
	for rows.Next() {
		var d Dataset
		if err := rows.Scan(&d.ID, &d.Name, &d.Endpoint, &d.Params, &d.CRS, &d.Records, &d.Path, &d.FetchedAt); err != nil {
			return nil, eris.Wrap(err, "catalog: scan dataset")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "catalog: iterate datasets")
	}
	return out, nil
}
