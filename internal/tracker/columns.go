package tracker

import (
	"time"

	"github.com/rcliao/babylog/internal/reference"
	"github.com/rcliao/babylog/internal/schema"
)

// Column ids shared across kinds.
const (
	FieldID           = "id"
	FieldStart        = "start"
	FieldEnd          = "end"
	FieldTime         = "time"
	FieldDay          = "day"
	FieldType         = "type"
	FieldNote         = "note"
	FieldDuration     = "duration"
	FieldDurationHour = "durationHour"
	FieldQuantity     = "quantity"
	FieldWeight       = "weight"
	FieldWeightUnit   = "weightUnit"
	FieldWeightKg     = "weightKg"
	FieldLength       = "length"
	FieldLengthUnit   = "lengthUnit"
	FieldLengthCm     = "lengthCm"
	FieldHead         = "head"
	FieldHeadUnit     = "headUnit"
	FieldHeadCm       = "headCm"
)

// Export field names.
const (
	srcID         = "id"
	srcStart      = "Start Time"
	srcEnd        = "End Time"
	srcNotes      = "Notes"
	srcFeedType   = "Feed Type"
	srcQuantity   = "Quantity (ml)"
	srcDuration   = "Duration (min)"
	srcTime       = "Time"
	srcType       = "Type"
	srcDay        = "Day"
	srcWeight     = "Weight"
	srcWeightUnit = "Weight Unit"
	srcLength     = "Length"
	srcLengthUnit = "Length Unit"
	srcHead       = "Head Size"
	srcHeadUnit   = "Head Unit"
	srcCategory   = "Category"
)

func sleepColumns(b DayBoundary) []schema.Column {
	return []schema.Column{
		schema.Direct(FieldID, "ID", srcID, schema.KindString),
		schema.Direct(FieldStart, "Start", srcStart, schema.KindDateTime),
		schema.Direct(FieldEnd, "End", srcEnd, schema.KindDateTime),
		schema.Direct(FieldNote, "Note", srcNotes, schema.KindString),
		schema.Derived(FieldTime, "Mid Time", schema.KindDateTime, deriveMidpoint),
		schema.Derived(FieldDay, "Day", schema.KindDate, func(prior schema.Record, _ schema.RawRecord) (schema.Value, error) {
			mid, ok := prior.Time(FieldTime)
			if !ok {
				return schema.Null(schema.KindDate), nil
			}
			return schema.Date(b.Bucket(mid)), nil
		}),
		schema.Derived(FieldType, "Type", schema.KindString, func(prior schema.Record, _ schema.RawRecord) (schema.Value, error) {
			start, ok := prior.Time(FieldStart)
			if !ok {
				return schema.Null(schema.KindString), nil
			}
			return schema.String(b.Classify(start)), nil
		}),
		schema.Derived(FieldDuration, "Duration (min)", schema.KindNumber, deriveSpanMinutes),
		schema.Derived(FieldDurationHour, "Duration (h)", schema.KindNumber, deriveHours),
	}
}

func feedColumns() []schema.Column {
	return []schema.Column{
		schema.Direct(FieldID, "ID", srcID, schema.KindString),
		schema.Direct(FieldStart, "Start", srcStart, schema.KindDateTime),
		schema.Direct(FieldEnd, "End", srcEnd, schema.KindDateTime),
		schema.Direct(FieldType, "Type", srcFeedType, schema.KindString),
		schema.Direct(FieldQuantity, "Quantity (ml)", srcQuantity, schema.KindNumber),
		schema.Direct(FieldNote, "Note", srcNotes, schema.KindString),
		schema.Derived(FieldDuration, "Duration (min)", schema.KindNumber, func(prior schema.Record, raw schema.RawRecord) (schema.Value, error) {
			if text, ok := raw[srcDuration]; ok {
				v, err := schema.Coerce(text, schema.KindNumber, schema.Format{})
				if err != nil || !v.IsNull() {
					return v, err
				}
			}
			return deriveSpanMinutes(prior, raw)
		}),
		schema.Derived(FieldTime, "Time", schema.KindDateTime, deriveMidpoint),
		schema.Derived(FieldDay, "Day", schema.KindDate, deriveCalendarDay),
	}
}

func diaperColumns() []schema.Column {
	return []schema.Column{
		schema.Direct(FieldID, "ID", srcID, schema.KindString),
		schema.Direct(FieldTime, "Time", srcTime, schema.KindDateTime),
		schema.Direct(FieldType, "Type", srcType, schema.KindString),
		schema.Direct(FieldNote, "Note", srcNotes, schema.KindString),
		schema.Derived(FieldDay, "Day", schema.KindDate, deriveCalendarDay),
	}
}

func growthColumns() []schema.Column {
	return []schema.Column{
		schema.Direct(FieldID, "ID", srcID, schema.KindString),
		schema.Direct(FieldDay, "Day", srcDay, schema.KindDate),
		schema.Direct(FieldWeight, "Weight", srcWeight, schema.KindNumber),
		schema.Direct(FieldWeightUnit, "Weight Unit", srcWeightUnit, schema.KindString),
		schema.Direct(FieldLength, "Length", srcLength, schema.KindNumber),
		schema.Direct(FieldLengthUnit, "Length Unit", srcLengthUnit, schema.KindString),
		schema.Direct(FieldHead, "Head", srcHead, schema.KindNumber),
		schema.Direct(FieldHeadUnit, "Head Unit", srcHeadUnit, schema.KindString),
		schema.Direct(FieldNote, "Note", srcNotes, schema.KindString),
		schema.Derived(FieldWeightKg, "Weight (kg)", schema.KindNumber, convertField(FieldWeight, FieldWeightUnit, reference.ConvertToKg)),
		schema.Derived(FieldLengthCm, "Length (cm)", schema.KindNumber, convertField(FieldLength, FieldLengthUnit, reference.ConvertToCm)),
		schema.Derived(FieldHeadCm, "Head (cm)", schema.KindNumber, convertField(FieldHead, FieldHeadUnit, reference.ConvertToCm)),
	}
}

func journalColumns() []schema.Column {
	return []schema.Column{
		schema.Direct(FieldID, "ID", srcID, schema.KindString),
		schema.Direct(FieldTime, "Time", srcTime, schema.KindDateTime),
		schema.Direct(FieldType, "Category", srcCategory, schema.KindString),
		schema.Direct(FieldNote, "Note", srcNotes, schema.KindString),
		schema.Derived(FieldDay, "Day", schema.KindDate, deriveCalendarDay),
	}
}

// deriveMidpoint is halfway between start and end, or start when end is
// missing.
func deriveMidpoint(prior schema.Record, _ schema.RawRecord) (schema.Value, error) {
	start, ok := prior.Time(FieldStart)
	if !ok {
		return schema.Null(schema.KindDateTime), nil
	}
	end, ok := prior.Time(FieldEnd)
	if !ok || end.Before(start) {
		return schema.DateTime(start), nil
	}
	return schema.DateTime(midpoint(start, end)), nil
}

func deriveCalendarDay(prior schema.Record, _ schema.RawRecord) (schema.Value, error) {
	t, ok := prior.Time(FieldTime)
	if !ok {
		return schema.Null(schema.KindDate), nil
	}
	return schema.Date(t), nil
}

// deriveSpanMinutes is end minus start in minutes; null unless positive.
func deriveSpanMinutes(prior schema.Record, _ schema.RawRecord) (schema.Value, error) {
	start, okStart := prior.Time(FieldStart)
	end, okEnd := prior.Time(FieldEnd)
	if !okStart || !okEnd || !end.After(start) {
		return schema.Null(schema.KindNumber), nil
	}
	return schema.Number(end.Sub(start).Minutes()), nil
}

func deriveHours(prior schema.Record, _ schema.RawRecord) (schema.Value, error) {
	m, ok := prior.Float(FieldDuration)
	if !ok {
		return schema.Null(schema.KindNumber), nil
	}
	return schema.Number(m / 60), nil
}

// convertField converts a measurement column into a base unit using its unit
// column. Unknown units fail the record.
func convertField(valueID, unitID string, conv func(float64, string) (float64, error)) schema.DeriveFunc {
	return func(prior schema.Record, _ schema.RawRecord) (schema.Value, error) {
		v, ok := prior.Float(valueID)
		if !ok {
			return schema.Null(schema.KindNumber), nil
		}
		out, err := conv(v, prior.Str(unitID))
		if err != nil {
			return schema.Null(schema.KindNumber), err
		}
		return schema.Number(out), nil
	}
}

func midpoint(start, end time.Time) time.Time {
	return start.Add(end.Sub(start) / 2)
}
