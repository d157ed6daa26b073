package tracker

import (
	"fmt"
	"slices"
	"time"

	"github.com/rcliao/babylog/internal/dataset"
	"github.com/rcliao/babylog/internal/numeric"
	"github.com/rcliao/babylog/internal/schema"
)

// dayGroups accumulates values per day keyed by the day's Unix seconds.
type dayGroups struct {
	days   map[int64]time.Time
	values map[int64][]float64
}

func newDayGroups() dayGroups {
	return dayGroups{days: map[int64]time.Time{}, values: map[int64][]float64{}}
}

func (g dayGroups) add(day time.Time, v float64) dayGroups {
	k := day.Unix()
	g.days[k] = day
	g.values[k] = append(g.values[k], v)
	return g
}

func (g dayGroups) sortedKeys() []int64 {
	keys := make([]int64, 0, len(g.days))
	for k := range g.days {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SleepLongestDurations returns, per day, the n longest sleeps of sleepType in
// hours followed by the rest of that day's sleep.
func SleepLongestDurations(ds *dataset.Dataset, sleepType string, n int) *dataset.Table {
	groups := newDayGroups()
	for _, rec := range ds.Records() {
		if rec.Str(FieldType) != sleepType {
			continue
		}
		day, okDay := rec.Time(FieldDay)
		hours, okHours := rec.Float(FieldDurationHour)
		if !okDay || !okHours {
			continue
		}
		groups = groups.add(day, hours)
	}

	cols := []dataset.ColumnDescriptor{{ID: FieldDay, Label: "Day", Type: dataset.TypeName(schema.KindDate)}}
	for i := range n {
		cols = append(cols, dataset.ColumnDescriptor{
			ID:    fmt.Sprintf("longest%d", i+1),
			Label: ordinalLongest(i + 1),
			Type:  dataset.TypeName(schema.KindNumber),
		})
	}
	cols = append(cols, dataset.ColumnDescriptor{ID: "rest", Label: "Rest", Type: dataset.TypeName(schema.KindNumber)})
	t := dataset.NewTable(cols...)

	for _, k := range groups.sortedKeys() {
		row := []schema.Value{schema.Date(groups.days[k])}
		for _, h := range numeric.LongestDurations(groups.values[k], n) {
			row = append(row, schema.Number(h))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func ordinalLongest(i int) string {
	switch i {
	case 1:
		return "Longest"
	case 2:
		return "2nd longest"
	case 3:
		return "3rd longest"
	}
	return fmt.Sprintf("%dth longest", i)
}

// SleepHoursPerDay totals sleep hours per bucketed day.
func SleepHoursPerDay(ds *dataset.Dataset) (*dataset.Table, error) {
	view, err := ds.View(dataset.ByID(FieldDay), dataset.ByID(FieldDurationHour))
	if err != nil {
		return nil, err
	}
	return dataset.GroupSum(view, FieldDay, FieldDurationHour, "Duration")
}

// Naps returns the sleeps classified as naps.
func Naps(ds *dataset.Dataset) *dataset.Dataset {
	return ds.Where(func(r schema.Record) bool { return r.Str(FieldType) == SleepNap })
}

// NightSleeps returns the sleeps classified as night sleep.
func NightSleeps(ds *dataset.Dataset) *dataset.Dataset {
	return ds.Where(func(r schema.Record) bool { return r.Str(FieldType) == SleepNight })
}
