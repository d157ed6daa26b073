// Package store provides the import storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/schema"
)

// ErrNotFound is returned when no live import matches.
var ErrNotFound = errors.New("import not found")

// PutParams holds parameters for storing an export.
type PutParams struct {
	Kind    string
	Source  string
	Records []schema.RawRecord
}

// GetParams holds parameters for retrieving the imports of a kind.
type GetParams struct {
	Kind    string
	History bool
	Version int // 0 means latest
}

// ListParams holds parameters for listing imports.
type ListParams struct {
	Kind    string
	History bool // include superseded versions
	Limit   int
}

// RmParams holds parameters for deleting imports. ID selects one import;
// otherwise Kind selects the latest (or every) version of that kind.
type RmParams struct {
	ID          string
	Kind        string
	AllVersions bool
	Hard        bool
}

// Store defines the import storage interface.
type Store interface {
	// Put stores an export as the next version of its kind.
	Put(ctx context.Context, p PutParams) (*model.Import, error)

	// Get retrieves imports of a kind.
	// Returns a slice (single element normally, multiple with History=true).
	Get(ctx context.Context, p GetParams) ([]model.Import, error)

	// List lists imports, latest version per kind unless History is set.
	List(ctx context.Context, p ListParams) ([]model.Import, error)

	// Rm soft-deletes (or hard-deletes) imports.
	Rm(ctx context.Context, p RmParams) error

	// RawRecords returns the rows of the latest live import of kind, in
	// export order. A kind never imported yields no rows.
	RawRecords(ctx context.Context, kind string) ([]schema.RawRecord, error)

	// Close closes the store.
	Close() error
}
