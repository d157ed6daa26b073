package tracker

import (
	"slices"
	"strings"
	"time"

	"github.com/rcliao/babylog/internal/dataset"
	"github.com/rcliao/babylog/internal/schema"
)

// Diaper types as exported.
const (
	DiaperPee       = "Pee"
	DiaperPoo       = "Poo"
	DiaperPeeAndPoo = "Pee and Poo"
)

type diaperCount struct {
	day      time.Time
	pee, poo int
}

// countDiaper folds one record into acc. Unknown types leave acc unchanged.
func countDiaper(acc map[int64]diaperCount, day time.Time, typ string) map[int64]diaperCount {
	var pee, poo int
	switch {
	case strings.EqualFold(typ, DiaperPee):
		pee = 1
	case strings.EqualFold(typ, DiaperPoo), strings.EqualFold(typ, DiaperPeeAndPoo):
		poo = 1
	default:
		return acc
	}
	k := day.Unix()
	c := acc[k]
	c.day = day
	c.pee += pee
	c.poo += poo
	acc[k] = c
	return acc
}

// DiapersPerDay counts pee and poo diapers per day, days ascending. "Pee and
// Poo" counts toward poo.
func DiapersPerDay(ds *dataset.Dataset) *dataset.Table {
	acc := map[int64]diaperCount{}
	for _, rec := range ds.Records() {
		day, ok := rec.Time(FieldDay)
		if !ok {
			continue
		}
		acc = countDiaper(acc, day, strings.TrimSpace(rec.Str(FieldType)))
	}

	t := dataset.NewTable(
		dataset.ColumnDescriptor{ID: FieldDay, Label: "Day", Type: dataset.TypeName(schema.KindDate)},
		dataset.ColumnDescriptor{ID: "pee", Label: "Pee", Type: dataset.TypeName(schema.KindNumber)},
		dataset.ColumnDescriptor{ID: "poo", Label: "Poo", Type: dataset.TypeName(schema.KindNumber)},
	)
	keys := make([]int64, 0, len(acc))
	for k := range acc {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		c := acc[k]
		t.Rows = append(t.Rows, []schema.Value{
			schema.Date(c.day),
			schema.Number(float64(c.pee)),
			schema.Number(float64(c.poo)),
		})
	}
	return t
}
