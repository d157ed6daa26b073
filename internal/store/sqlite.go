package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/schema"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	ddl := `
	CREATE TABLE IF NOT EXISTS imports (
		id           TEXT PRIMARY KEY,
		kind         TEXT NOT NULL,
		source       TEXT,
		version      INTEGER NOT NULL DEFAULT 1,
		supersedes   TEXT,
		record_count INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		deleted_at   TEXT
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_imports_kind_version ON imports(kind, version);
	CREATE INDEX IF NOT EXISTS idx_imports_created ON imports(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_imports_deleted ON imports(deleted_at);

	CREATE TABLE IF NOT EXISTS raw_records (
		id        TEXT PRIMARY KEY,
		import_id TEXT NOT NULL REFERENCES imports(id),
		kind      TEXT NOT NULL,
		seq       INTEGER NOT NULL,
		fields    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_raw_records_import ON raw_records(import_id, seq);
	`
	_, err := s.db.Exec(ddl)
	return err
}

const importColumns = `id, kind, source, version, supersedes, record_count, created_at, deleted_at`

func (s *SQLiteStore) Put(ctx context.Context, p PutParams) (*model.Import, error) {
	if p.Kind == "" {
		return nil, errors.New("put: kind is required")
	}
	now := time.Now().UTC()
	id := s.newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Versions keep counting past soft-deleted imports.
	var maxVersion int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM imports WHERE kind = ?`, p.Kind).Scan(&maxVersion); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}

	var prevID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM imports
		 WHERE kind = ? AND deleted_at IS NULL
		 ORDER BY version DESC LIMIT 1`, p.Kind).Scan(&prevID)

	var supersedes *string
	if err == nil {
		supersedes = &prevID
	}

	var source *string
	if p.Source != "" {
		source = &p.Source
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO imports (id, kind, source, version, supersedes, record_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, p.Kind, source, maxVersion+1, supersedes, len(p.Records), now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert import: %w", err)
	}

	for i, rec := range p.Records {
		fields, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO raw_records (id, import_id, kind, seq, fields) VALUES (?, ?, ?, ?, ?)`,
			s.newID(), id, p.Kind, i, string(fields))
		if err != nil {
			return nil, fmt.Errorf("insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	imp := &model.Import{
		ID:          id,
		Kind:        p.Kind,
		Source:      p.Source,
		Version:     maxVersion + 1,
		RecordCount: len(p.Records),
		CreatedAt:   now.Truncate(time.Second),
	}
	if supersedes != nil {
		imp.Supersedes = *supersedes
	}
	return imp, nil
}

func (s *SQLiteStore) Get(ctx context.Context, p GetParams) ([]model.Import, error) {
	var query string
	var args []interface{}

	if p.History {
		query = `SELECT ` + importColumns + `
				 FROM imports WHERE kind = ? AND deleted_at IS NULL
				 ORDER BY version DESC`
		args = []interface{}{p.Kind}
	} else if p.Version > 0 {
		query = `SELECT ` + importColumns + `
				 FROM imports WHERE kind = ? AND version = ? AND deleted_at IS NULL
				 LIMIT 1`
		args = []interface{}{p.Kind, p.Version}
	} else {
		query = `SELECT ` + importColumns + `
				 FROM imports WHERE kind = ? AND deleted_at IS NULL
				 ORDER BY version DESC LIMIT 1`
		args = []interface{}{p.Kind}
	}

	imports, err := s.queryImports(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(imports) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p.Kind)
	}
	return imports, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Import, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"i.deleted_at IS NULL"}
	var args []interface{}
	if p.Kind != "" {
		where = append(where, "i.kind = ?")
		args = append(args, p.Kind)
	}

	join := ""
	if !p.History {
		join = `INNER JOIN (
			SELECT kind, MAX(version) AS max_ver
			FROM imports WHERE deleted_at IS NULL
			GROUP BY kind
		) latest ON i.kind = latest.kind AND i.version = latest.max_ver`
	}

	query := fmt.Sprintf(`
		SELECT i.id, i.kind, i.source, i.version, i.supersedes, i.record_count, i.created_at, i.deleted_at
		FROM imports i
		%s
		WHERE %s
		ORDER BY i.created_at DESC, i.kind, i.version DESC
		LIMIT ?`, join, strings.Join(where, " AND "))
	args = append(args, limit)

	return s.queryImports(ctx, query, args...)
}

func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) error {
	ids, err := s.rmTargets(ctx, p)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, id := range ids {
		if p.Hard {
			if _, err := tx.ExecContext(ctx, `DELETE FROM raw_records WHERE import_id = ?`, id); err != nil {
				return fmt.Errorf("delete records: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM imports WHERE id = ?`, id); err != nil {
				return fmt.Errorf("delete import: %w", err)
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, `UPDATE imports SET deleted_at = ? WHERE id = ?`, now, id); err != nil {
			return fmt.Errorf("soft delete import: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) rmTargets(ctx context.Context, p RmParams) ([]string, error) {
	var (
		query string
		args  []interface{}
		label string
	)
	switch {
	case p.ID != "":
		query = `SELECT id FROM imports WHERE id = ? AND deleted_at IS NULL`
		args = []interface{}{p.ID}
		label = p.ID
	case p.Kind != "" && p.AllVersions:
		query = `SELECT id FROM imports WHERE kind = ? AND deleted_at IS NULL`
		args = []interface{}{p.Kind}
		label = p.Kind
	case p.Kind != "":
		query = `SELECT id FROM imports WHERE kind = ? AND deleted_at IS NULL ORDER BY version DESC LIMIT 1`
		args = []interface{}{p.Kind}
		label = p.Kind
	default:
		return nil, errors.New("rm: import id or kind is required")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, label)
	}
	return ids, nil
}

func (s *SQLiteStore) RawRecords(ctx context.Context, kind string) ([]schema.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.fields FROM raw_records r
		WHERE r.import_id = (
			SELECT id FROM imports
			WHERE kind = ? AND deleted_at IS NULL
			ORDER BY version DESC LIMIT 1
		)
		ORDER BY r.seq`, kind)
	if err != nil {
		return nil, fmt.Errorf("query %s records: %w", kind, err)
	}
	defer rows.Close()

	var out []schema.RawRecord
	for rows.Next() {
		var fields string
		if err := rows.Scan(&fields); err != nil {
			return nil, err
		}
		var rec schema.RawRecord
		if err := json.Unmarshal([]byte(fields), &rec); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", kind, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryImports(ctx context.Context, query string, args ...interface{}) ([]model.Import, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var imports []model.Import
	for rows.Next() {
		imp, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanImport(row scanner) (model.Import, error) {
	var imp model.Import
	var source, supersedes, deletedAt sql.NullString
	var createdAt string

	err := row.Scan(
		&imp.ID, &imp.Kind, &source, &imp.Version, &supersedes,
		&imp.RecordCount, &createdAt, &deletedAt,
	)
	if err != nil {
		return imp, err
	}

	imp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if source.Valid {
		imp.Source = source.String
	}
	if supersedes.Valid {
		imp.Supersedes = supersedes.String
	}
	if deletedAt.Valid {
		t, _ := time.Parse(time.RFC3339, deletedAt.String)
		imp.DeletedAt = &t
	}
	return imp, nil
}

func scanRecord(row scanner) (model.StoredRecord, error) {
	var r model.StoredRecord
	var fields string
	if err := row.Scan(&r.ID, &r.ImportID, &r.Kind, &r.Seq, &fields); err != nil {
		return r, err
	}
	if err := json.Unmarshal([]byte(fields), &r.Fields); err != nil {
		return r, fmt.Errorf("decode record %s: %w", r.ID, err)
	}
	return r, nil
}
