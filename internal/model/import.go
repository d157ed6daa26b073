// Package model defines the stored import types.
package model

import "time"

// Import is one stored export file of a single record kind. Exports are
// cumulative, so a new import of a kind supersedes the previous one.
type Import struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	Source      string     `json:"source,omitempty"`
	Version     int        `json:"version"`
	Supersedes  string     `json:"supersedes,omitempty"`
	RecordCount int        `json:"records"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// StoredRecord is one raw export row kept verbatim.
type StoredRecord struct {
	ID       string            `json:"id"`
	ImportID string            `json:"import_id"`
	Kind     string            `json:"kind"`
	Seq      int               `json:"seq"`
	Fields   map[string]string `json:"fields"`
}
