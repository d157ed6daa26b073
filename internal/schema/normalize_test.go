package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testColumns() []Column {
	return []Column{
		Direct("id", "id", "", KindString),
		Direct("start", "Start", "Start Time", KindDateTime),
		Direct("quantity", "Quantity", "Quantity (ml)", KindNumber),
		Direct("asleep", "Asleep", "", KindBoolean),
		Derived("double", "Double", KindNumber, func(prior Record, _ RawRecord) (Value, error) {
			q, ok := prior.Float("quantity")
			if !ok {
				return Null(KindNumber), nil
			}
			return Number(q * 2), nil
		}),
	}
}

func TestNormalize_OneRecordPerRowWithEveryColumn(t *testing.T) {
	raw := []RawRecord{
		{"id": "a", " Start Time": "2024-03-01 08:15", "Quantity (ml)": "120", "Asleep": "1"},
		{"id": "b"},
		{},
	}

	got, err := Normalize(raw, testColumns(), DefaultFormat())
	require.NoError(t, err)
	require.Len(t, got, len(raw))

	for i, rec := range got {
		for _, c := range testColumns() {
			_, ok := rec[c.ID]
			assert.Truef(t, ok, "row %d missing column %q", i, c.ID)
		}
	}

	first := got[0]
	assert.Equal(t, "a", first.Str("id"))
	start, ok := first.Time("start")
	require.True(t, ok, "trimmed key should be found")
	assert.Equal(t, time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC), start)
	q, _ := first.Float("quantity")
	assert.Equal(t, 120.0, q)
	d, _ := first.Float("double")
	assert.Equal(t, 240.0, d)
	b, _ := first.Get("asleep").AsBool()
	assert.True(t, b)

	assert.True(t, got[1].Get("start").IsNull())
	assert.True(t, got[1].Get("double").IsNull())
}

func TestNormalize_PreservesInputOrder(t *testing.T) {
	raw := []RawRecord{{"id": "3"}, {"id": "1"}, {"id": "2"}}
	got, err := Normalize(raw, testColumns(), DefaultFormat())
	require.NoError(t, err)
	assert.Equal(t, "3", got[0].Str("id"))
	assert.Equal(t, "1", got[1].Str("id"))
	assert.Equal(t, "2", got[2].Str("id"))
}

func TestCoerce_NumberZeroAndBlankAreNull(t *testing.T) {
	for _, text := range []string{"", "0", "0.0", "  ", " 0 "} {
		v, err := Coerce(text, KindNumber, DefaultFormat())
		require.NoError(t, err)
		assert.Truef(t, v.IsNull(), "%q should be null", text)
		assert.Equal(t, KindNumber, v.Kind())
	}
}

func TestCoerce_NumberWithThousandsSeparator(t *testing.T) {
	v, err := Coerce("1,250.5", KindNumber, DefaultFormat())
	require.NoError(t, err)
	f, ok := v.AsFloat()
	require.True(t, ok)
	assert.Equal(t, 1250.5, f)
}

func TestCoerce_MalformedNumberFails(t *testing.T) {
	for _, text := range []string{"lots", "NaN", "nan", "Inf", "-infinity", "+Inf"} {
		v, err := Coerce(text, KindNumber, DefaultFormat())
		var pe *ParseError
		require.True(t, errors.As(err, &pe), "%q should fail, got %v", text, v)
		assert.Equal(t, text, pe.Value)
		assert.True(t, v.IsNull(), text)
	}
}

func TestCoerce_Boolean(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"1", true},
		{"2", true},
		{"-1.5", true},
		{"0", false},
		{"true", true},
		{"false", false},
		{"yes", true},
		{"nope", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			v, err := Coerce(tt.text, KindBoolean, DefaultFormat())
			require.NoError(t, err)
			b, ok := v.AsBool()
			require.True(t, ok)
			assert.Equal(t, tt.want, b)
		})
	}
}

func TestCoerce_DateTruncatesAndFallsBack(t *testing.T) {
	v, err := Coerce("2024-05-06 23:10", KindDate, DefaultFormat())
	require.NoError(t, err)
	got, _ := v.AsTime()
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), got)

	v, err = Coerce("2024-05-06", KindDateTime, DefaultFormat())
	require.NoError(t, err)
	got, _ = v.AsTime()
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), got)
}

func TestNormalize_MalformedDateAbortsWithRow(t *testing.T) {
	raw := []RawRecord{
		{"id": "ok", "Start Time": "2024-03-01 08:15"},
		{"id": "bad", "Start Time": "yesterday-ish"},
	}
	_, err := Normalize(raw, testColumns(), DefaultFormat())
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Row)
	assert.Equal(t, "start", pe.Column)
	assert.Equal(t, "yesterday-ish", pe.Value)
}

func TestNormalize_DeriveErrorIsAnnotated(t *testing.T) {
	boom := errors.New("boom")
	cols := []Column{
		Derived("x", "X", KindNumber, func(Record, RawRecord) (Value, error) { return Value{}, boom }),
	}
	_, err := Normalize([]RawRecord{{}}, cols, DefaultFormat())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `row 0 column "x"`)
}

func TestNormalize_DerivedSeesOnlyEarlierColumns(t *testing.T) {
	var seen []string
	cols := []Column{
		Direct("a", "A", "", KindString),
		Derived("b", "B", KindString, func(prior Record, _ RawRecord) (Value, error) {
			for k := range prior {
				seen = append(seen, k)
			}
			return String("b"), nil
		}),
		Direct("c", "C", "", KindString),
	}
	_, err := Normalize([]RawRecord{{"A": "1", "C": "3"}}, cols, DefaultFormat())
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, seen)
}

func TestValidate_RejectsDuplicateIDs(t *testing.T) {
	err := Validate([]Column{
		Direct("a", "A", "", KindString),
		Direct("a", "B", "", KindString),
	})
	assert.Error(t, err)
}

func TestRawFromMap(t *testing.T) {
	raw := RawFromMap(map[string]any{"n": 12.5, "s": "x", "b": true, "z": nil})
	assert.Equal(t, RawRecord{"n": "12.5", "s": "x", "b": "true"}, raw)
}

func TestCompare_NullFirst(t *testing.T) {
	assert.Equal(t, -1, Compare(Null(KindNumber), Number(1)))
	assert.Equal(t, 1, Compare(Number(2), Number(1)))
	assert.Equal(t, 0, Compare(String("a"), String("a")))
}
