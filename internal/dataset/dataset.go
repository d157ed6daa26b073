// Package dataset holds cleansed records together with their renderable row
// projection, and builds chart tables from them.
package dataset

import (
	"github.com/rcliao/babylog/internal/schema"
)

// Dataset is an immutable set of cleansed records for one schema. Rows[i] is
// the renderable projection of Records[i] in column order.
type Dataset struct {
	columns []schema.Column
	records []schema.Record
	rows    [][]schema.Value
	index   map[string]int
}

// New wraps already-cleansed records. Columns missing from a record are filled
// with nulls so every record carries every column.
func New(cols []schema.Column, records []schema.Record) *Dataset {
	d := &Dataset{
		columns: cols,
		records: make([]schema.Record, len(records)),
		rows:    make([][]schema.Value, len(records)),
		index:   make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		d.index[c.ID] = i
	}
	for i, rec := range records {
		full := make(schema.Record, len(cols))
		row := make([]schema.Value, len(cols))
		for j, c := range cols {
			v, ok := rec[c.ID]
			if !ok {
				v = schema.Null(c.Kind)
			}
			full[c.ID] = v
			row[j] = v
		}
		d.records[i] = full
		d.rows[i] = row
	}
	return d
}

// Build normalizes raw rows against cols and wraps the result.
func Build(raw []schema.RawRecord, cols []schema.Column, f schema.Format) (*Dataset, error) {
	records, err := schema.Normalize(raw, cols, f)
	if err != nil {
		return nil, err
	}
	return New(cols, records), nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Columns returns the schema in declared order.
func (d *Dataset) Columns() []schema.Column { return d.columns }

// ColumnIndex returns the position of column id, or -1.
func (d *Dataset) ColumnIndex(id string) int {
	if i, ok := d.index[id]; ok {
		return i
	}
	return -1
}

// Records returns the cleansed records in input order.
func (d *Dataset) Records() []schema.Record { return d.records }

// Rows returns the renderable rows, parallel to Records.
func (d *Dataset) Rows() [][]schema.Value { return d.rows }

// Where returns the records matching pred, order preserved.
func (d *Dataset) Where(pred func(schema.Record) bool) *Dataset {
	out := &Dataset{columns: d.columns, index: d.index}
	for i, rec := range d.records {
		if pred(rec) {
			out.records = append(out.records, rec)
			out.rows = append(out.rows, d.rows[i])
		}
	}
	return out
}

// Largest returns the maximum non-null value of column id, or null when the
// column is unknown or empty.
func (d *Dataset) Largest(id string) schema.Value {
	i := d.ColumnIndex(id)
	if i < 0 {
		return schema.Value{}
	}
	best := schema.Null(d.columns[i].Kind)
	for _, row := range d.rows {
		if schema.Compare(row[i], best) > 0 {
			best = row[i]
		}
	}
	return best
}

// Table returns every column and row as a renderable table.
func (d *Dataset) Table() *Table {
	t := &Table{Columns: make([]ColumnDescriptor, len(d.columns))}
	for i, c := range d.columns {
		t.Columns[i] = Describe(c)
	}
	t.Rows = append(t.Rows, d.rows...)
	return t
}
