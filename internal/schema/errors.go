package schema

import "fmt"

// ParseError reports a raw value that is present but malformed.
type ParseError struct {
	Row    int // zero-based input row, -1 when unknown
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("row %d column %q: cannot parse %q: %v", e.Row, e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("column %q: cannot parse %q: %v", e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
