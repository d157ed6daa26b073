package schema

import (
	"fmt"
	"strings"
	"time"
)

// RawRecord is one exported row: field name to raw text. Keys may carry stray
// whitespace from the exporter.
type RawRecord map[string]string

// Trimmed returns a copy with whitespace removed around every key.
func (r RawRecord) Trimmed() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[strings.TrimSpace(k)] = v
	}
	return out
}

// RawFromMap converts a decoded JSON object into a RawRecord.
// Numbers and booleans are rendered as text; nulls are dropped.
func RawFromMap(m map[string]any) RawRecord {
	out := make(RawRecord, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			out[k] = val
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}

// Record is one cleansed row: column id to typed value.
type Record map[string]Value

// Get returns the value for id, or a null string when absent.
func (r Record) Get(id string) Value {
	return r[id]
}

// Float returns the numeric value of id and whether it is set.
func (r Record) Float(id string) (float64, bool) {
	return r[id].AsFloat()
}

// Time returns the date/datetime value of id and whether it is set.
func (r Record) Time(id string) (time.Time, bool) {
	return r[id].AsTime()
}

// Str returns the string value of id, empty when null.
func (r Record) Str(id string) string {
	s, _ := r[id].AsString()
	return s
}

// DeriveFunc computes a column from the columns already cleansed for the same
// record and the raw record. It must not modify prior.
type DeriveFunc func(prior Record, raw RawRecord) (Value, error)

// Column describes one output field. A column is either direct, read from
// Source (or Label) in the raw record, or derived through Derive.
type Column struct {
	ID     string
	Label  string
	Source string
	Kind   Kind
	Derive DeriveFunc
}

// Direct declares a column read from a raw field. An empty source falls back to
// the label.
func Direct(id, label, source string, kind Kind) Column {
	return Column{ID: id, Label: label, Source: source, Kind: kind}
}

// Derived declares a computed column.
func Derived(id, label string, kind Kind, fn DeriveFunc) Column {
	return Column{ID: id, Label: label, Kind: kind, Derive: fn}
}

// IsDerived reports whether the column is computed.
func (c Column) IsDerived() bool { return c.Derive != nil }

// SourceKey is the raw field name a direct column reads.
func (c Column) SourceKey() string {
	if c.Source != "" {
		return c.Source
	}
	return c.Label
}

// Validate checks that ids are present and unique and that direct columns name
// a source.
func Validate(cols []Column) error {
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		if c.ID == "" {
			return fmt.Errorf("column %d: empty id", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("column %q: duplicate id", c.ID)
		}
		seen[c.ID] = true
		if !c.IsDerived() && c.SourceKey() == "" {
			return fmt.Errorf("column %q: no source field or label", c.ID)
		}
	}
	return nil
}
