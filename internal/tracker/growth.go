package tracker

import (
	"math"
	"slices"
	"time"

	"github.com/rcliao/babylog/internal/dataset"
	"github.com/rcliao/babylog/internal/reference"
	"github.com/rcliao/babylog/internal/schema"
)

type weighing struct {
	day time.Time
	kg  float64
}

// weighings returns every record with a positive weight and a day, converted
// to kilograms, in input order.
func weighings(ds *dataset.Dataset) ([]weighing, error) {
	var out []weighing
	for _, rec := range ds.Records() {
		w, ok := rec.Float(FieldWeight)
		if !ok || w <= 0 {
			continue
		}
		day, ok := rec.Time(FieldDay)
		if !ok {
			continue
		}
		kg, err := reference.ConvertToKg(w, rec.Str(FieldWeightUnit))
		if err != nil {
			return nil, err
		}
		out = append(out, weighing{day: day, kg: kg})
	}
	return out, nil
}

// WeightChange returns the latest weight divided by the earliest weight, by
// day. It is NaN when nothing was weighed.
func WeightChange(ds *dataset.Dataset) (float64, error) {
	ws, err := weighings(ds)
	if err != nil {
		return math.NaN(), err
	}
	if len(ws) == 0 {
		return math.NaN(), nil
	}
	first, last := ws[0], ws[0]
	for _, w := range ws[1:] {
		if w.day.Before(first.day) {
			first = w
		}
		if !w.day.Before(last.day) {
			last = w
		}
	}
	return last.kg / first.kg, nil
}

// WeightWithPercentiles returns (day, weight kg, P25, P75) per weighing, days
// ascending. The percentile columns carry the interval role; ages outside
// the reference table leave them null.
func WeightWithPercentiles(ds *dataset.Dataset, meta reference.Metadata, table *reference.PercentileTable) (*dataset.Table, error) {
	ws, err := weighings(ds)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(ws, func(a, b weighing) int { return a.day.Compare(b.day) })

	num := dataset.TypeName(schema.KindNumber)
	t := dataset.NewTable(
		dataset.ColumnDescriptor{ID: FieldDay, Label: "Day", Type: dataset.TypeName(schema.KindDate)},
		dataset.ColumnDescriptor{ID: FieldWeightKg, Label: "Weight (kg)", Type: num},
		dataset.ColumnDescriptor{ID: "p25", Label: "25th percentile", Type: num, Role: dataset.RoleInterval},
		dataset.ColumnDescriptor{ID: "p75", Label: "75th percentile", Type: num, Role: dataset.RoleInterval},
	)
	for _, w := range ws {
		age := meta.AgeInDays(w.day)
		t.Rows = append(t.Rows, []schema.Value{
			schema.Date(w.day),
			schema.Number(w.kg),
			numberOrNull(table.At(age, "P25")),
			numberOrNull(table.At(age, "P75")),
		})
	}
	return t, nil
}

// GrowthTable projects growth records onto day and the converted weight,
// length and head measurements.
func GrowthTable(ds *dataset.Dataset) (*dataset.Table, error) {
	return ds.View(
		dataset.ByID(FieldDay),
		dataset.ByID(FieldWeightKg),
		dataset.ByID(FieldLengthCm),
		dataset.ByID(FieldHeadCm),
		dataset.ByID(FieldNote),
	)
}

func numberOrNull(f float64) schema.Value {
	if math.IsNaN(f) {
		return schema.Null(schema.KindNumber)
	}
	return schema.Number(f)
}
