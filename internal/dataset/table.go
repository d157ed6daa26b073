package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/rcliao/babylog/internal/schema"
)

// Column roles understood by chart consumers.
const (
	RoleInterval = "interval"
	RoleTooltip  = "tooltip"
)

// ColumnDescriptor types one table column for a chart consumer.
type ColumnDescriptor struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Role  string `json:"role,omitempty"`
}

// Describe returns the descriptor of a schema column.
func Describe(c schema.Column) ColumnDescriptor {
	return ColumnDescriptor{ID: c.ID, Label: c.Label, Type: TypeName(c.Kind)}
}

// TypeName maps a value kind to the chart column type.
func TypeName(k schema.Kind) string {
	return k.String()
}

// Table is a renderable rows+typed-columns output.
type Table struct {
	Columns []ColumnDescriptor
	Rows    [][]schema.Value
}

// NewTable starts an empty table with the given columns.
func NewTable(cols ...ColumnDescriptor) *Table {
	return &Table{Columns: cols}
}

// AddRow appends a row. The row length must match the column count.
func (t *Table) AddRow(values ...schema.Value) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("add row: %d values for %d columns", len(values), len(t.Columns))
	}
	t.Rows = append(t.Rows, values)
	return nil
}

// ColumnIndex returns the position of column id, or -1.
func (t *Table) ColumnIndex(id string) int {
	return slices.IndexFunc(t.Columns, func(c ColumnDescriptor) bool { return c.ID == id })
}

type jsonCell struct {
	V any `json:"v"`
}

type jsonRow struct {
	C []jsonCell `json:"c"`
}

type jsonTable struct {
	Cols []ColumnDescriptor `json:"cols"`
	Rows []jsonRow          `json:"rows"`
}

// MarshalJSON encodes the table in the chart data-table literal format. Dates
// are written as "Date(y,m,d,h,mi,s)" with a zero-based month.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := jsonTable{
		Cols: t.Columns,
		Rows: make([]jsonRow, len(t.Rows)),
	}
	if out.Cols == nil {
		out.Cols = []ColumnDescriptor{}
	}
	for i, row := range t.Rows {
		cells := make([]jsonCell, len(row))
		for j, v := range row {
			cells[j] = jsonCell{V: cellValue(v)}
		}
		out.Rows[i] = jsonRow{C: cells}
	}
	return json.Marshal(out)
}

func cellValue(v schema.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case schema.KindDate:
		tm, _ := v.AsTime()
		return fmt.Sprintf("Date(%d,%d,%d)", tm.Year(), int(tm.Month())-1, tm.Day())
	case schema.KindDateTime:
		tm, _ := v.AsTime()
		return fmt.Sprintf("Date(%d,%d,%d,%d,%d,%d)",
			tm.Year(), int(tm.Month())-1, tm.Day(), tm.Hour(), tm.Minute(), tm.Second())
	case schema.KindNumber:
		f, _ := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	}
	return v.Interface()
}

// WriteCSV writes a header of column labels followed by every row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Label
		if header[i] == "" {
			header[i] = c.ID
		}
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = v.String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// GroupSum groups t by keyCol and sums the numeric valueCol, skipping nulls.
// Groups are sorted by key; null keys are dropped.
func GroupSum(t *Table, keyCol, valueCol, label string) (*Table, error) {
	ki, vi := t.ColumnIndex(keyCol), t.ColumnIndex(valueCol)
	if ki < 0 {
		return nil, fmt.Errorf("group sum: unknown column %q", keyCol)
	}
	if vi < 0 {
		return nil, fmt.Errorf("group sum: unknown column %q", valueCol)
	}

	keyDesc := t.Columns[ki]
	keyDesc.Role = ""
	out := NewTable(keyDesc, ColumnDescriptor{ID: valueCol, Label: label, Type: TypeName(schema.KindNumber)})

	var (
		keys []schema.Value
		sums []float64
	)
	for _, row := range t.Rows {
		k := row[ki]
		if k.IsNull() {
			continue
		}
		pos := slices.IndexFunc(keys, func(x schema.Value) bool { return schema.Compare(x, k) == 0 })
		if pos < 0 {
			keys = append(keys, k)
			sums = append(sums, 0)
			pos = len(keys) - 1
		}
		if f, ok := row[vi].AsFloat(); ok {
			sums[pos] += f
		}
	}
	for i, k := range keys {
		out.Rows = append(out.Rows, []schema.Value{k, schema.Number(sums[i])})
	}
	slices.SortStableFunc(out.Rows, func(a, b []schema.Value) int { return schema.Compare(a[0], b[0]) })
	return out, nil
}
