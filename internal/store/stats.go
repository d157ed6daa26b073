package store

import (
	"context"
	"fmt"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath        string      `json:"db_path"`
	DBSizeBytes   int64       `json:"db_size_bytes"`
	TotalImports  int         `json:"total_imports"`
	ActiveImports int         `json:"active_imports"`
	TotalRecords  int         `json:"total_records"`
	Kinds         []KindStats `json:"kinds"`
}

// KindStats holds per-kind counts. Records counts the latest live import only.
type KindStats struct {
	Kind          string `json:"kind"`
	Imports       int    `json:"imports"`
	LatestVersion int    `json:"latest_version"`
	Records       int    `json:"records"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM imports`, &st.TotalImports},
		{`SELECT COUNT(*) FROM imports WHERE deleted_at IS NULL`, &st.ActiveImports},
		{`SELECT COUNT(*) FROM raw_records`, &st.TotalRecords},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT i.kind, COUNT(*) AS cnt, MAX(i.version) AS max_ver,
		       (SELECT l.record_count FROM imports l
		        WHERE l.kind = i.kind AND l.deleted_at IS NULL
		        ORDER BY l.version DESC LIMIT 1) AS records
		FROM imports i WHERE i.deleted_at IS NULL
		GROUP BY i.kind ORDER BY i.kind`)
	if err != nil {
		return nil, fmt.Errorf("query kinds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ks KindStats
		if err := rows.Scan(&ks.Kind, &ks.Imports, &ks.LatestVersion, &ks.Records); err != nil {
			return nil, fmt.Errorf("scan kind stats: %w", err)
		}
		st.Kinds = append(st.Kinds, ks)
	}

	return st, rows.Err()
}
