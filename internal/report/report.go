// Package report loads every tracker kind from a record source and renders
// the chart tables shown on the dashboard.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rcliao/babylog/internal/config"
	"github.com/rcliao/babylog/internal/dataset"
	"github.com/rcliao/babylog/internal/reference"
	"github.com/rcliao/babylog/internal/schema"
	"github.com/rcliao/babylog/internal/timeline"
	"github.com/rcliao/babylog/internal/tracker"
)

// ErrUnknownChart is returned by Chart for a name not in ChartNames.
var ErrUnknownChart = errors.New("unknown chart")

// Chart names.
const (
	ChartDiapers  = "diapers"
	ChartFeedings = "feedings"
	ChartSleep    = "sleep"
	ChartNaps     = "naps"
	ChartNights   = "nights"
	ChartWeight   = "weight"
	ChartGrowth   = "growth"
	ChartTimeline = "timeline"
)

// ChartNames lists every chart Chart can render.
var ChartNames = []string{
	ChartTimeline, ChartNights, ChartNaps, ChartSleep,
	ChartFeedings, ChartDiapers, ChartWeight, ChartGrowth,
}

// Source supplies the raw records of the current import of a kind.
type Source interface {
	RawRecords(ctx context.Context, kind string) ([]schema.RawRecord, error)
}

// Options controls dataset building and chart rendering.
type Options struct {
	Format       schema.Format
	Boundary     tracker.DayBoundary
	FeedGap      time.Duration
	LongestN     int
	TimelineDays int
	Meta         reference.Metadata
	Percentiles  *reference.PercentileTable
}

// DefaultOptions mirrors config.Default with a birthdate of now.
func DefaultOptions(now time.Time) Options {
	return Options{
		Format:       schema.DefaultFormat(),
		Boundary:     tracker.DefaultBoundary(),
		FeedGap:      tracker.DefaultSessionGap,
		LongestN:     2,
		TimelineDays: 7,
		Meta:         reference.Metadata{Birthdate: now},
		Percentiles:  reference.DefaultWeightPercentiles(),
	}
}

// OptionsFromConfig resolves tracking settings, loading the birthdate and the
// percentile table.
func OptionsFromConfig(cfg config.TrackingConfig, now time.Time) (Options, error) {
	meta, err := reference.NewMetadata(cfg.Birthdate, now)
	if err != nil {
		return Options{}, fmt.Errorf("parse birthdate: %w", err)
	}

	pct := reference.DefaultWeightPercentiles()
	if cfg.PercentilesFile != "" {
		f, err := os.Open(cfg.PercentilesFile)
		if err != nil {
			return Options{}, fmt.Errorf("open percentiles: %w", err)
		}
		defer f.Close()
		if pct, err = reference.LoadPercentileCSV(f); err != nil {
			return Options{}, fmt.Errorf("load percentiles: %w", err)
		}
	}

	return Options{
		Format:       schema.Format{DateTime: cfg.DateFormat, Date: cfg.DateOnlyFormat},
		Boundary:     tracker.DayBoundary{NightStartHour: cfg.DayNightStartHour, NightEndHour: cfg.DayNightEndHour},
		FeedGap:      cfg.FeedSessionGap,
		LongestN:     cfg.LongestN,
		TimelineDays: cfg.TimelineDays,
		Meta:         meta,
		Percentiles:  pct,
	}, nil
}

// Report holds one dataset per kind.
type Report struct {
	opts     Options
	datasets map[tracker.Kind]*dataset.Dataset
}

// Load fetches every kind from src concurrently and normalizes them. A
// malformed record in any kind fails the whole load.
func Load(ctx context.Context, src Source, opts Options) (*Report, error) {
	raw := make([][]schema.RawRecord, len(tracker.Kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range tracker.Kinds {
		g.Go(func() error {
			recs, err := src.RawRecords(gctx, string(kind))
			if err != nil {
				return fmt.Errorf("load %s records: %w", kind, err)
			}
			raw[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r := &Report{opts: opts, datasets: make(map[tracker.Kind]*dataset.Dataset, len(tracker.Kinds))}
	for i, kind := range tracker.Kinds {
		ds, err := tracker.Build(kind, raw[i], opts.Boundary, opts.Format)
		if err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "dataset built", slog.String("kind", string(kind)), slog.Int("records", ds.Len()))
		r.datasets[kind] = ds
	}
	return r, nil
}

// Dataset returns the dataset of kind.
func (r *Report) Dataset(kind tracker.Kind) *dataset.Dataset {
	return r.datasets[kind]
}

// Chart renders the named chart. The timeline uses DefaultWindow.
func (r *Report) Chart(name string) (*dataset.Table, error) {
	switch name {
	case ChartDiapers:
		return tracker.DiapersPerDay(r.datasets[tracker.KindDiaper]), nil
	case ChartFeedings:
		sessions := tracker.FeedingSessions(r.datasets[tracker.KindFeed], r.opts.FeedGap)
		return tracker.MedianTimeBetweenFeedings(sessions), nil
	case ChartSleep:
		return tracker.SleepHoursPerDay(r.datasets[tracker.KindSleep])
	case ChartNaps:
		return tracker.SleepLongestDurations(r.datasets[tracker.KindSleep], tracker.SleepNap, r.opts.LongestN), nil
	case ChartNights:
		return tracker.SleepLongestDurations(r.datasets[tracker.KindSleep], tracker.SleepNight, r.opts.LongestN), nil
	case ChartWeight:
		return tracker.WeightWithPercentiles(r.datasets[tracker.KindGrowth], r.opts.Meta, r.opts.Percentiles)
	case ChartGrowth:
		return tracker.GrowthTable(r.datasets[tracker.KindGrowth])
	case ChartTimeline:
		return r.Timeline(r.DefaultWindow()), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownChart, name)
}

// Timeline merges sleeps, feedings, diapers and journal entries.
func (r *Report) Timeline(opts timeline.Options) *dataset.Table {
	return timeline.Merge([]timeline.Category{
		{Label: "Sleep", Dataset: r.datasets[tracker.KindSleep]},
		{Label: "Feeding", Dataset: r.datasets[tracker.KindFeed]},
		{Label: "Diaper", Dataset: r.datasets[tracker.KindDiaper]},
		{Label: "Journal", Dataset: r.datasets[tracker.KindJournal]},
	}, opts)
}

// DefaultWindow spans the TimelineDays before the latest sleep or feeding end.
// Without any end it is unbounded.
func (r *Report) DefaultWindow() timeline.Options {
	var latest time.Time
	for _, kind := range []tracker.Kind{tracker.KindSleep, tracker.KindFeed} {
		if t, ok := r.datasets[kind].Largest(tracker.FieldEnd).AsTime(); ok && t.After(latest) {
			latest = t
		}
	}
	if latest.IsZero() {
		return timeline.Options{}
	}
	start := latest.AddDate(0, 0, -r.opts.TimelineDays)
	return timeline.Options{Start: &start, End: &latest}
}

// Summary is the headline view of a report.
type Summary struct {
	Age          string         `json:"age"`
	AgeDays      int            `json:"age_days"`
	WeightChange *float64       `json:"weight_change"`
	LatestKg     *float64       `json:"latest_weight_kg"`
	Counts       map[string]int `json:"counts"`
	LatestEvent  *time.Time     `json:"latest_event,omitempty"`
}

// Summary reports age at now, weight change, the latest weight and the
// number of records per kind.
func (r *Report) Summary(now time.Time) (*Summary, error) {
	s := &Summary{
		Age:     r.opts.Meta.AgeString(now),
		AgeDays: r.opts.Meta.AgeDay(now),
		Counts:  make(map[string]int, len(r.datasets)),
	}
	for kind, ds := range r.datasets {
		s.Counts[string(kind)] = ds.Len()
	}

	growth := r.datasets[tracker.KindGrowth]
	change, err := tracker.WeightChange(growth)
	if err != nil {
		return nil, fmt.Errorf("weight change: %w", err)
	}
	if !math.IsNaN(change) {
		s.WeightChange = &change
	}
	if t, err := tracker.GrowthTable(growth); err == nil {
		s.LatestKg = latestWeight(t)
	}

	if w := r.DefaultWindow(); w.End != nil {
		s.LatestEvent = w.End
	}
	return s, nil
}

func latestWeight(t *dataset.Table) *float64 {
	rows := slices.Clone(t.Rows)
	slices.SortStableFunc(rows, func(a, b []schema.Value) int { return schema.Compare(a[0], b[0]) })
	for i := len(rows) - 1; i >= 0; i-- {
		if kg, ok := rows[i][1].AsFloat(); ok {
			return &kg
		}
	}
	return nil
}
