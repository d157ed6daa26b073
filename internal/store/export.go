package store

import (
	"context"
	"strings"

	"github.com/rcliao/babylog/internal/model"
)

// ExportAll returns the records of the latest live import of every kind,
// optionally filtered by kind, ordered by kind and export order.
func (s *SQLiteStore) ExportAll(ctx context.Context, kind string) ([]model.StoredRecord, error) {
	where := []string{"i.deleted_at IS NULL"}
	args := []interface{}{}

	if kind != "" {
		where = append(where, "i.kind = ?")
		args = append(args, kind)
	}

	query := `SELECT r.id, r.import_id, r.kind, r.seq, r.fields
	          FROM raw_records r
	          INNER JOIN imports i ON i.id = r.import_id
	          INNER JOIN (
	              SELECT kind, MAX(version) AS max_ver
	              FROM imports WHERE deleted_at IS NULL
	              GROUP BY kind
	          ) latest ON i.kind = latest.kind AND i.version = latest.max_ver
	          WHERE ` + strings.Join(where, " AND ") + ` ORDER BY r.kind, r.seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.StoredRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
