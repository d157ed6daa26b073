// Package schema describes tracker export columns and normalizes raw export
// rows into typed records.
package schema

import (
	"cmp"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Kind is the value kind of a column.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindDate
	KindDateTime
)

var kindNames = map[Kind]string{
	KindString:   "string",
	KindNumber:   "number",
	KindBoolean:  "boolean",
	KindDate:     "date",
	KindDateTime: "datetime",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Value is a single typed cell. The zero Value is a null string.
type Value struct {
	kind  Kind
	valid bool
	num   float64
	b     bool
	str   string
	t     time.Time
}

// Null returns a null value of the given kind.
func Null(k Kind) Value { return Value{kind: k} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, valid: true, num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, valid: true, b: b} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, valid: true, str: s} }

// Date returns a calendar date value; the time of day is dropped.
func Date(t time.Time) Value { return Value{kind: KindDate, valid: true, t: StartOfDay(t)} }

// DateTime returns a wall-clock date and time value.
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, valid: true, t: t} }

// Kind reports the value kind, also for null values.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value carries no data.
func (v Value) IsNull() bool { return !v.valid }

// AsFloat returns the number and whether the value is a non-null number.
func (v Value) AsFloat() (float64, bool) {
	if !v.valid || v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// AsBool returns the boolean and whether the value is a non-null boolean.
func (v Value) AsBool() (bool, bool) {
	if !v.valid || v.kind != KindBoolean {
		return false, false
	}
	return v.b, true
}

// AsString returns the string and whether the value is a non-null string.
func (v Value) AsString() (string, bool) {
	if !v.valid || v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsTime returns the time and whether the value is a non-null date or datetime.
func (v Value) AsTime() (time.Time, bool) {
	if !v.valid || (v.kind != KindDate && v.kind != KindDateTime) {
		return time.Time{}, false
	}
	return v.t, true
}

// Interface returns nil, float64, bool, string or time.Time.
func (v Value) Interface() any {
	if !v.valid {
		return nil
	}
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBoolean:
		return v.b
	case KindDate, KindDateTime:
		return v.t
	default:
		return v.str
	}
}

// String renders the value for CSV output and tooltips. Null renders empty.
func (v Value) String() string {
	if !v.valid {
		return ""
	}
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindDate:
		return v.t.Format(time.DateOnly)
	case KindDateTime:
		return v.t.Format(time.DateTime)
	default:
		return v.str
	}
}

// MarshalJSON encodes the value as a plain JSON scalar. NaN and infinities
// encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	switch v.kind {
	case KindDate, KindDateTime:
		return json.Marshal(v.String())
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
	}
	return json.Marshal(v.Interface())
}

// Compare orders two values of the same kind. Null sorts before everything.
func Compare(a, b Value) int {
	switch {
	case !a.valid && !b.valid:
		return 0
	case !a.valid:
		return -1
	case !b.valid:
		return 1
	}
	switch a.kind {
	case KindNumber:
		return cmp.Compare(a.num, b.num)
	case KindBoolean:
		return cmp.Compare(boolInt(a.b), boolInt(b.b))
	case KindDate, KindDateTime:
		return a.t.Compare(b.t)
	default:
		return cmp.Compare(a.str, b.str)
	}
}

// StartOfDay truncates t to midnight of its calendar day, keeping the location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
