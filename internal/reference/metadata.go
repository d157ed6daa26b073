package reference

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Metadata describes the tracked child.
type Metadata struct {
	Birthdate time.Time
}

// NewMetadata parses birthdate as an ISO date or an RFC 3339 timestamp. An
// empty birthdate defaults to now.
func NewMetadata(birthdate string, now time.Time) (Metadata, error) {
	birthdate = strings.TrimSpace(birthdate)
	if birthdate == "" {
		return Metadata{Birthdate: now}, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339, "2006-01-02 15:04", time.DateTime} {
		if t, err := time.Parse(layout, birthdate); err == nil {
			return Metadata{Birthdate: t}, nil
		}
	}
	return Metadata{}, fmt.Errorf("parse birthdate %q: expected YYYY-MM-DD or RFC 3339", birthdate)
}

// AgeAt returns the elapsed time between birth and t.
func (m Metadata) AgeAt(t time.Time) time.Duration {
	return t.Sub(m.Birthdate)
}

// AgeInDays returns the fractional age in days at t.
func (m Metadata) AgeInDays(t time.Time) float64 {
	return m.AgeAt(t).Hours() / 24
}

// AgeDay returns the age at t in whole days, rounded to the nearest day.
func (m Metadata) AgeDay(t time.Time) int {
	return int(math.Round(m.AgeInDays(t)))
}

// AgeString formats the age at t for display.
func (m Metadata) AgeString(t time.Time) string {
	return FormatAge(m.AgeInDays(t))
}

// FormatAge renders an age given in days: hours below one day, "1 day" up to
// a day and a half, whole days below four weeks and whole weeks after that.
// Negative ages render as "0 hours".
func FormatAge(days float64) string {
	days = max(days, 0)
	switch {
	case days < 1:
		return plural(int(math.Round(days*24)), "hour")
	case days < 1.5:
		return "1 day"
	case days < 28:
		return plural(int(math.Round(days)), "day")
	default:
		return plural(int(math.Round(days/7)), "week")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
