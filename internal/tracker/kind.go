// Package tracker declares the per-kind export schemas and the aggregations
// that turn tracker datasets into chart tables.
package tracker

import (
	"fmt"
	"strings"

	"github.com/rcliao/babylog/internal/dataset"
	"github.com/rcliao/babylog/internal/schema"
)

// Kind is a tracker record kind.
type Kind string

const (
	KindSleep   Kind = "sleep"
	KindFeed    Kind = "feed"
	KindDiaper  Kind = "diaper"
	KindGrowth  Kind = "growth"
	KindJournal Kind = "journal"
)

// Kinds lists every record kind in timeline order.
var Kinds = []Kind{KindSleep, KindFeed, KindDiaper, KindGrowth, KindJournal}

// ParseKind accepts a kind name, case-insensitive, singular or plural.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "sleep", "sleeps":
		return KindSleep, nil
	case "feed", "feeds", "feeding", "feedings":
		return KindFeed, nil
	case "diaper", "diapers", "excretion", "excretions":
		return KindDiaper, nil
	case "growth", "growths":
		return KindGrowth, nil
	case "journal", "journals":
		return KindJournal, nil
	}
	return "", fmt.Errorf("unknown record kind %q (want sleep, feed, diaper, growth or journal)", s)
}

// Columns returns the schema of kind. The boundary only affects sleeps.
func Columns(kind Kind, b DayBoundary) ([]schema.Column, error) {
	switch kind {
	case KindSleep:
		return sleepColumns(b), nil
	case KindFeed:
		return feedColumns(), nil
	case KindDiaper:
		return diaperColumns(), nil
	case KindGrowth:
		return growthColumns(), nil
	case KindJournal:
		return journalColumns(), nil
	}
	return nil, fmt.Errorf("unknown record kind %q", kind)
}

// Build normalizes raw export rows of kind into a dataset.
func Build(kind Kind, raw []schema.RawRecord, b DayBoundary, f schema.Format) (*dataset.Dataset, error) {
	cols, err := Columns(kind, b)
	if err != nil {
		return nil, err
	}
	ds, err := dataset.Build(raw, cols, f)
	if err != nil {
		return nil, fmt.Errorf("build %s dataset: %w", kind, err)
	}
	return ds, nil
}
