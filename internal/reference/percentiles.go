// Package reference holds the growth reference data and the child metadata
// used to place measurements on an age axis.
package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrAgeOutOfRange is returned for ages outside the reference table.
var ErrAgeOutOfRange = errors.New("age out of reference range")

// LookupError reports a percentile lookup for an age the table does not cover.
type LookupError struct {
	Day int
	Len int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("percentile lookup: day %d outside [0, %d)", e.Day, e.Len)
}

func (e *LookupError) Unwrap() error { return ErrAgeOutOfRange }

// PercentileRow maps a percentile rank such as "P25" to its reference value.
type PercentileRow map[string]float64

// PercentileTable is indexed by age in whole days since birth.
type PercentileTable struct {
	rows []PercentileRow
}

// NewPercentileTable wraps rows where rows[i] is the reference at day i.
func NewPercentileTable(rows []PercentileRow) *PercentileTable {
	return &PercentileTable{rows: rows}
}

// Len returns the number of days covered.
func (p *PercentileTable) Len() int { return len(p.rows) }

// Row returns the reference row for day.
func (p *PercentileTable) Row(day int) (PercentileRow, error) {
	if day < 0 || day >= len(p.rows) {
		return nil, &LookupError{Day: day, Len: len(p.rows)}
	}
	return p.rows[day], nil
}

// At returns percentile pct at the given fractional age, rounded to the
// nearest day. Ages outside the table and unknown ranks yield NaN.
func (p *PercentileTable) At(ageDays float64, pct string) float64 {
	if math.IsNaN(ageDays) {
		return math.NaN()
	}
	row, err := p.Row(int(math.Round(ageDays)))
	if err != nil {
		return math.NaN()
	}
	v, ok := row[pct]
	if !ok {
		return math.NaN()
	}
	return v
}

// LoadPercentileCSV reads a day-indexed reference table with a header row. A
// "Day" column, when present, is ignored and rows are taken in file order;
// every other column is a percentile rank.
func LoadPercentileCSV(r io.Reader) (*PercentileTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read percentile header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []PercentileRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read percentile row: %w", err)
		}
		row := make(PercentileRow, len(header))
		for i, name := range header {
			if i >= len(rec) || strings.EqualFold(name, "day") {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("percentile line %d column %q: %w", line, name, err)
			}
			row[name] = v
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, errors.New("percentile table is empty")
	}
	return NewPercentileTable(rows), nil
}

// lms holds Box-Cox power, median and coefficient of variation.
type lms struct{ L, M, S float64 }

// WHO weight-for-age, boys, by completed month 0 to 12.
var weightForAgeBoys = []lms{
	{0.3487, 3.3464, 0.14602},
	{0.2297, 4.4709, 0.13395},
	{0.1970, 5.5675, 0.12385},
	{0.1738, 6.3762, 0.11727},
	{0.1553, 7.0023, 0.11316},
	{0.1395, 7.5105, 0.11080},
	{0.1257, 7.9340, 0.10958},
	{0.1134, 8.2970, 0.10902},
	{0.1021, 8.6151, 0.10882},
	{0.0917, 8.9014, 0.10881},
	{0.0820, 9.1649, 0.10891},
	{0.0730, 9.4122, 0.10906},
	{0.0644, 9.6479, 0.10925},
}

var zScores = map[string]float64{
	"P3":  -1.880794,
	"P15": -1.036433,
	"P25": -0.674490,
	"P50": 0,
	"P75": 0.674490,
	"P85": 1.036433,
	"P97": 1.880794,
}

const daysPerMonth = 30.4375

// DefaultWeightPercentiles returns a weight-for-age table in kilograms for days
// 0 through 365, interpolated from the monthly LMS parameters.
func DefaultWeightPercentiles() *PercentileTable {
	rows := make([]PercentileRow, 366)
	last := len(weightForAgeBoys) - 1
	for day := range rows {
		m := float64(day) / daysPerMonth
		i := int(m)
		var p lms
		if i >= last {
			p = weightForAgeBoys[last]
		} else {
			frac := m - float64(i)
			a, b := weightForAgeBoys[i], weightForAgeBoys[i+1]
			p = lms{
				L: a.L + (b.L-a.L)*frac,
				M: a.M + (b.M-a.M)*frac,
				S: a.S + (b.S-a.S)*frac,
			}
		}
		row := make(PercentileRow, len(zScores))
		for name, z := range zScores {
			row[name] = p.value(z)
		}
		rows[day] = row
	}
	return NewPercentileTable(rows)
}

func (p lms) value(z float64) float64 {
	if p.L == 0 {
		return p.M * math.Exp(p.S*z)
	}
	return p.M * math.Pow(1+p.L*p.S*z, 1/p.L)
}
