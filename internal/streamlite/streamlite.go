// Package streamlite provides connectors that load user records from a backing source.
package streamlite

import (
	"context"
	"fmt"
	"time"

	"github.com/dsjohal14/peoplepicker/internal/scope/db"
	"github.com/dsjohal14/peoplepicker/internal/scope/record"
)

// Connector represents a user data source
type Connector interface {
	Name() string
	Load(ctx context.Context) ([]record.Record, error)
	// Loaded is the number of records read by the last successful Load
	Loaded() int
	LoadedAt() time.Time
}

// BaseConnector provides common functionality for all connectors
type BaseConnector struct {
	name     string
	loadedAt time.Time
	loaded   int
}

// NewBaseConnector creates a new base connector
func NewBaseConnector(name string) *BaseConnector {
	return &BaseConnector{
		name: name,
	}
}

// Name returns the connector name
func (c *BaseConnector) Name() string {
	return c.name
}

// LoadedAt returns when the connector last loaded successfully
func (c *BaseConnector) LoadedAt() time.Time {
	return c.loadedAt
}

// Loaded returns how many records the last load produced
func (c *BaseConnector) Loaded() int {
	return c.loaded
}

func (c *BaseConnector) markLoaded(n int) {
	c.loadedAt = time.Now()
	c.loaded = n
}

// FileConnector loads users from a JSON array or JSONL file
type FileConnector struct {
	*BaseConnector
	path string
}

// NewFileConnector creates a connector for a dataset file
func NewFileConnector(path string) *FileConnector {
	return &FileConnector{
		BaseConnector: NewBaseConnector("file:" + path),
		path:          path,
	}
}

// Load reads the dataset file
func (c *FileConnector) Load(ctx context.Context) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := db.ReadDataset(c.path)
	if err != nil {
		return nil, err
	}
	c.markLoaded(len(records))
	return records, nil
}

// UserLoader reads users from a database
type UserLoader interface {
	LoadUsers(ctx context.Context) ([]record.Record, error)
}

// PostgresConnector loads users from the users table
type PostgresConnector struct {
	*BaseConnector
	db UserLoader
}

// NewPostgresConnector creates a connector over an open database
func NewPostgresConnector(loader UserLoader) *PostgresConnector {
	return &PostgresConnector{
		BaseConnector: NewBaseConnector("postgres"),
		db:            loader,
	}
}

// Load reads every user row
func (c *PostgresConnector) Load(ctx context.Context) ([]record.Record, error) {
	records, err := c.db.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres connector: %w", err)
	}
	c.markLoaded(len(records))
	return records, nil
}

// Sync loads from a connector into a store, replacing its contents
func Sync(ctx context.Context, c Connector, store *db.Store) (int, error) {
	records, err := c.Load(ctx)
	if err != nil {
		return 0, err
	}
	store.Replace(records)
	return store.Count(), nil
}

// Export loads from a connector and writes the records as a dataset file
func Export(ctx context.Context, c Connector, path string) (int, error) {
	records, err := c.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := db.WriteDataset(path, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

var (
	_ Connector  = (*FileConnector)(nil)
	_ Connector  = (*PostgresConnector)(nil)
	_ UserLoader = (*db.DB)(nil)
)
