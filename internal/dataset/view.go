package dataset

import (
	"fmt"

	"github.com/rcliao/babylog/internal/schema"
)

// ViewColumn selects or computes one column of a projected view. Build one with
// ByID, ByIndex or Computed.
type ViewColumn struct {
	id      string
	index   int
	label   string
	kind    schema.Kind
	role    string
	compute func(schema.Record) schema.Value
}

// ByID selects an existing column by id.
func ByID(id string) ViewColumn { return ViewColumn{id: id, index: -1} }

// ByIndex selects an existing column by position.
func ByIndex(i int) ViewColumn { return ViewColumn{index: i} }

// Computed declares a synthetic column evaluated per record.
func Computed(id, label string, kind schema.Kind, fn func(schema.Record) schema.Value) ViewColumn {
	return ViewColumn{id: id, index: -1, label: label, kind: kind, compute: fn}
}

// WithRole returns a copy tagged with a chart role such as RoleTooltip.
func (v ViewColumn) WithRole(role string) ViewColumn {
	v.role = role
	return v
}

// WithLabel overrides the column label.
func (v ViewColumn) WithLabel(label string) ViewColumn {
	v.label = label
	return v
}

// Tooltip is a computed string column carrying the tooltip role.
func Tooltip(fn func(schema.Record) string) ViewColumn {
	return Computed("tooltip", "Tooltip", schema.KindString, func(r schema.Record) schema.Value {
		return schema.String(fn(r))
	}).WithRole(RoleTooltip)
}

// View projects the dataset onto cols. Unknown ids or out of range indices
// fail; computed columns are evaluated against each record.
func (d *Dataset) View(cols ...ViewColumn) (*Table, error) {
	type source struct {
		pos     int
		compute func(schema.Record) schema.Value
	}
	t := &Table{Columns: make([]ColumnDescriptor, len(cols))}
	srcs := make([]source, len(cols))

	for i, vc := range cols {
		switch {
		case vc.compute != nil:
			t.Columns[i] = ColumnDescriptor{ID: vc.id, Label: vc.label, Type: TypeName(vc.kind), Role: vc.role}
			srcs[i] = source{pos: -1, compute: vc.compute}
		default:
			pos := vc.index
			if vc.id != "" {
				pos = d.ColumnIndex(vc.id)
				if pos < 0 {
					return nil, fmt.Errorf("view: unknown column %q", vc.id)
				}
			}
			if pos < 0 || pos >= len(d.columns) {
				return nil, fmt.Errorf("view: column index %d out of range", pos)
			}
			desc := Describe(d.columns[pos])
			if vc.label != "" {
				desc.Label = vc.label
			}
			desc.Role = vc.role
			t.Columns[i] = desc
			srcs[i] = source{pos: pos}
		}
	}

	t.Rows = make([][]schema.Value, 0, len(d.records))
	for r, rec := range d.records {
		row := make([]schema.Value, len(cols))
		for i, s := range srcs {
			if s.compute != nil {
				row[i] = s.compute(rec)
			} else {
				row[i] = d.rows[r][s.pos]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
