package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Format holds the layouts used to parse date and datetime columns.
type Format struct {
	DateTime string
	Date     string
}

// DefaultFormat matches the tracker app's CSV export.
func DefaultFormat() Format {
	return Format{
		DateTime: "2006-01-02 15:04",
		Date:     time.DateOnly,
	}
}

// Normalize cleanses raw rows against cols. The output has one record per input
// row, in input order, and every record carries every column id.
func Normalize(raw []RawRecord, cols []Column, f Format) ([]Record, error) {
	if err := Validate(cols); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	if f.DateTime == "" && f.Date == "" {
		f = DefaultFormat()
	}

	records := make([]Record, 0, len(raw))
	for i, r := range raw {
		rec, err := normalizeRecord(i, r, cols, f)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// NormalizeRecord cleanses a single raw row.
func NormalizeRecord(raw RawRecord, cols []Column, f Format) (Record, error) {
	return normalizeRecord(-1, raw, cols, f)
}

func normalizeRecord(row int, raw RawRecord, cols []Column, f Format) (Record, error) {
	trimmed := raw.Trimmed()
	rec := make(Record, len(cols))

	for _, c := range cols {
		var (
			v   Value
			err error
		)
		if c.IsDerived() {
			v, err = c.Derive(rec, trimmed)
		} else {
			text, ok := trimmed[c.SourceKey()]
			if !ok {
				v = Null(c.Kind)
			} else {
				v, err = Coerce(text, c.Kind, f)
			}
		}
		if err != nil {
			return nil, annotate(err, row, c.ID)
		}
		rec[c.ID] = v
	}
	return rec, nil
}

func annotate(err error, row int, column string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		if pe.Row < 0 {
			pe.Row = row
		}
		if pe.Column == "" {
			pe.Column = column
		}
		return pe
	}
	if row >= 0 {
		return fmt.Errorf("row %d column %q: %w", row, column, err)
	}
	return fmt.Errorf("column %q: %w", column, err)
}

// Coerce converts raw text to a value of the given kind. Blank text is null.
// Numbers equal to zero are null, since the exporter writes 0 for "no data".
func Coerce(text string, kind Kind, f Format) (Value, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Null(kind), nil
	}

	switch kind {
	case KindNumber:
		n, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
		if err != nil {
			return Null(kind), &ParseError{Row: -1, Value: text, Err: err}
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return Null(kind), &ParseError{Row: -1, Value: text, Err: errors.New("not a finite number")}
		}
		if n == 0 {
			return Null(kind), nil
		}
		return Number(n), nil

	case KindBoolean:
		return Bool(parseBool(text)), nil

	case KindDate:
		t, err := parseTime(text, f.Date, f.DateTime)
		if err != nil {
			return Null(kind), &ParseError{Row: -1, Value: text, Err: err}
		}
		return Date(t), nil

	case KindDateTime:
		t, err := parseTime(text, f.DateTime, f.Date)
		if err != nil {
			return Null(kind), &ParseError{Row: -1, Value: text, Err: err}
		}
		return DateTime(t), nil

	default:
		return String(text), nil
	}
}

func parseBool(text string) bool {
	if b, err := strconv.ParseBool(text); err == nil {
		return b
	}
	switch strings.ToLower(text) {
	case "yes", "y":
		return true
	}
	n, err := strconv.ParseFloat(text, 64)
	return err == nil && n != 0
}

// parseTime tries each non-empty layout and reports the first layout's error.
func parseTime(text string, layouts ...string) (time.Time, error) {
	var firstErr error
	for _, layout := range layouts {
		if layout == "" {
			continue
		}
		t, err := time.Parse(layout, text)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = errors.New("no date layout configured")
	}
	return time.Time{}, firstErr
}
