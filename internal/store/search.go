package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/babylog/internal/model"
)

// SearchParams holds parameters for searching stored records.
type SearchParams struct {
	Query string
	Kind  string
	Limit int
}

// Search finds records of the latest live imports whose fields contain the
// query substring, case-insensitively.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.StoredRecord, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + strings.ToLower(p.Query) + "%"

	where := []string{"i.deleted_at IS NULL", "LOWER(r.fields) LIKE ?"}
	args := []interface{}{query}
	if p.Kind != "" {
		where = append(where, "r.kind = ?")
		args = append(args, p.Kind)
	}

	sql := fmt.Sprintf(`
		SELECT r.id, r.import_id, r.kind, r.seq, r.fields
		FROM raw_records r
		INNER JOIN imports i ON i.id = r.import_id
		INNER JOIN (
			SELECT kind, MAX(version) AS max_ver
			FROM imports WHERE deleted_at IS NULL
			GROUP BY kind
		) latest ON i.kind = latest.kind AND i.version = latest.max_ver
		WHERE %s
		ORDER BY r.kind, r.seq
		LIMIT ?`, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.StoredRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
