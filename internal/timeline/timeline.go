// Package timeline merges tracker datasets into one event list for a timeline
// chart.
package timeline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rcliao/babylog/internal/dataset"
	"github.com/rcliao/babylog/internal/schema"
)

// Column ids of a merged timeline.
const (
	ColCategory = "category"
	ColType     = "type"
	ColTooltip  = "tooltip"
	ColStart    = "start"
	ColEnd      = "end"
)

const tooltipLayout = "Jan 2 15:04"

// Category is one labelled dataset on the timeline.
type Category struct {
	Label   string
	Dataset *dataset.Dataset
}

// Options filters and orders the merged rows.
type Options struct {
	// Start drops events starting before it.
	Start *time.Time
	// End drops events ending after it.
	End *time.Time
	// SortByStart interleaves categories by start time. Otherwise rows stay
	// grouped by category in caller order.
	SortByStart bool
}

type event struct {
	category, typ, note string
	start, end          time.Time
}

// Merge builds (category, type, tooltip, start, end) rows from every
// category. Events without a start or time are skipped; events without an end
// end at their start, and events without a type use the category label.
func Merge(categories []Category, opts Options) *dataset.Table {
	var events []event
	for _, c := range categories {
		if c.Dataset == nil {
			continue
		}
		for _, rec := range c.Dataset.Records() {
			e, ok := toEvent(c.Label, rec)
			if !ok || !opts.within(e) {
				continue
			}
			events = append(events, e)
		}
	}
	if opts.SortByStart {
		slices.SortStableFunc(events, func(a, b event) int { return a.start.Compare(b.start) })
	}

	str := dataset.TypeName(schema.KindString)
	dt := dataset.TypeName(schema.KindDateTime)
	t := dataset.NewTable(
		dataset.ColumnDescriptor{ID: ColCategory, Label: "Category", Type: str},
		dataset.ColumnDescriptor{ID: ColType, Label: "Type", Type: str},
		dataset.ColumnDescriptor{ID: ColTooltip, Label: "Tooltip", Type: str, Role: dataset.RoleTooltip},
		dataset.ColumnDescriptor{ID: ColStart, Label: "Start", Type: dt},
		dataset.ColumnDescriptor{ID: ColEnd, Label: "End", Type: dt},
	)
	for _, e := range events {
		t.Rows = append(t.Rows, []schema.Value{
			schema.String(e.category),
			schema.String(e.typ),
			schema.String(Tooltip(e.typ, e.start, e.end, e.note)),
			schema.DateTime(e.start),
			schema.DateTime(e.end),
		})
	}
	return t
}

func toEvent(label string, rec schema.Record) (event, bool) {
	start, ok := rec.Time("start")
	if !ok {
		if start, ok = rec.Time("time"); !ok {
			return event{}, false
		}
	}
	end, ok := rec.Time("end")
	if !ok || end.Before(start) {
		end = start
	}
	typ := strings.TrimSpace(rec.Str("type"))
	if typ == "" {
		typ = label
	}
	return event{category: label, typ: typ, note: strings.TrimSpace(rec.Str("note")), start: start, end: end}, true
}

func (o Options) within(e event) bool {
	if o.Start != nil && e.start.Before(*o.Start) {
		return false
	}
	if o.End != nil && e.end.After(*o.End) {
		return false
	}
	return true
}

// Tooltip summarizes an event: type, start and end, and the note on its own
// line when present.
func Tooltip(typ string, start, end time.Time, note string) string {
	var b strings.Builder
	b.WriteString(typ)
	b.WriteString(": ")
	b.WriteString(start.Format(tooltipLayout))
	if !end.Equal(start) {
		if schema.StartOfDay(end).Equal(schema.StartOfDay(start)) {
			fmt.Fprintf(&b, " – %s", end.Format("15:04"))
		} else {
			fmt.Fprintf(&b, " – %s", end.Format(tooltipLayout))
		}
	}
	if note != "" {
		b.WriteString("\n")
		b.WriteString(note)
	}
	return b.String()
}

var boundLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", time.DateOnly}

// ParseWindow builds Options from optional start and end bounds. Bounds are
// RFC 3339, "YYYY-MM-DD HH:MM" or a bare date; a bare end date covers that
// whole day.
func ParseWindow(start, end string, sortByStart bool) (Options, error) {
	opts := Options{SortByStart: sortByStart}
	if start = strings.TrimSpace(start); start != "" {
		t, _, err := parseBound(start)
		if err != nil {
			return Options{}, fmt.Errorf("parse start: %w", err)
		}
		opts.Start = &t
	}
	if end = strings.TrimSpace(end); end != "" {
		t, dateOnly, err := parseBound(end)
		if err != nil {
			return Options{}, fmt.Errorf("parse end: %w", err)
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		opts.End = &t
	}
	if opts.Start != nil && opts.End != nil && opts.End.Before(*opts.Start) {
		return Options{}, fmt.Errorf("window end %s is before start %s", opts.End.Format(time.RFC3339), opts.Start.Format(time.RFC3339))
	}
	return opts, nil
}

// parseBound keeps the wall clock of s and drops any offset, since event
// times carry no zone.
func parseBound(s string) (time.Time, bool, error) {
	for _, layout := range boundLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
			return wall, layout == time.DateOnly, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized time %q", s)
}
