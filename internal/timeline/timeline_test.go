package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/babylog/internal/schema"
	"github.com/rcliao/babylog/internal/tracker"
)

func mustBuild(t *testing.T, kind tracker.Kind, raw ...schema.RawRecord) Category {
	t.Helper()
	ds, err := tracker.Build(kind, raw, tracker.DefaultBoundary(), schema.DefaultFormat())
	require.NoError(t, err)
	return Category{Label: string(kind), Dataset: ds}
}

func testCategories(t *testing.T) []Category {
	t.Helper()
	sleeps := mustBuild(t, tracker.KindSleep,
		schema.RawRecord{"Start Time": "2024-03-02 13:00", "End Time": "2024-03-02 14:00", "Notes": "stroller"},
		schema.RawRecord{"Start Time": "2024-03-01 20:00", "End Time": "2024-03-02 05:00"},
	)
	sleeps.Label = "Sleep"
	feeds := mustBuild(t, tracker.KindFeed,
		schema.RawRecord{"Start Time": "2024-03-02 09:00", "End Time": "2024-03-02 09:20", "Feed Type": "Bottle"},
	)
	feeds.Label = "Feeds"
	diapers := mustBuild(t, tracker.KindDiaper,
		schema.RawRecord{"Time": "2024-03-02 10:00", "Type": "Pee"},
		schema.RawRecord{"Type": "Poo"},
	)
	diapers.Label = "Diapers"
	journal := mustBuild(t, tracker.KindJournal,
		schema.RawRecord{"Time": "2024-03-02 11:00", "Notes": "first smile"},
	)
	journal.Label = "Journal"
	return []Category{sleeps, feeds, diapers, journal}
}

func column(t *testing.T, rows [][]schema.Value, i int) []string {
	t.Helper()
	out := make([]string, len(rows))
	for r, row := range rows {
		out[r] = row[i].String()
	}
	return out
}

func TestMerge_KeepsCategoryGrouping(t *testing.T) {
	tbl := Merge(testCategories(t), Options{})

	require.Len(t, tbl.Columns, 5)
	assert.Equal(t, "tooltip", tbl.Columns[2].Role)
	assert.Equal(t, []string{"Sleep", "Sleep", "Feeds", "Diapers", "Journal"}, column(t, tbl.Rows, 0))
	assert.Equal(t, []string{"Nap", "Night", "Bottle", "Pee", "Journal"}, column(t, tbl.Rows, 1))
}

func TestMerge_PointEventsEndAtStart(t *testing.T) {
	tbl := Merge(testCategories(t), Options{})
	diaper := tbl.Rows[3]
	assert.Equal(t, diaper[3], diaper[4])
}

func TestMerge_SortByStart(t *testing.T) {
	tbl := Merge(testCategories(t), Options{SortByStart: true})
	assert.Equal(t, []string{"Sleep", "Feeds", "Diapers", "Journal", "Sleep"}, column(t, tbl.Rows, 0))
	assert.Equal(t, "2024-03-01 20:00:00", tbl.Rows[0][3].String())
}

func TestMerge_Window(t *testing.T) {
	start := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)

	tbl := Merge(testCategories(t), Options{Start: &start, End: &end})
	assert.Equal(t, []string{"Feeds", "Diapers", "Journal"}, column(t, tbl.Rows, 0))

	tbl = Merge(testCategories(t), Options{Start: &start})
	assert.Len(t, tbl.Rows, 4)
}

func TestTooltip(t *testing.T) {
	s := time.Date(2024, 3, 2, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, "Nap: Mar 2 13:00 – 14:30\nstroller", Tooltip("Nap", s, s.Add(90*time.Minute), "stroller"))
	assert.Equal(t, "Night: Mar 2 13:00 – Mar 3 05:00", Tooltip("Night", s, s.Add(16*time.Hour), ""))
	assert.Equal(t, "Pee: Mar 2 13:00", Tooltip("Pee", s, s, ""))
}

func TestParseWindow(t *testing.T) {
	opts, err := ParseWindow("2024-03-01", "2024-03-02", true)
	require.NoError(t, err)
	require.NotNil(t, opts.Start)
	require.NotNil(t, opts.End)
	assert.True(t, opts.SortByStart)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *opts.Start)
	assert.Equal(t, time.Date(2024, 3, 2, 23, 59, 59, 999999999, time.UTC), *opts.End)

	opts, err = ParseWindow("", "2024-03-02 12:30", false)
	require.NoError(t, err)
	assert.Nil(t, opts.Start)
	assert.Equal(t, time.Date(2024, 3, 2, 12, 30, 0, 0, time.UTC), *opts.End)

	opts, err = ParseWindow("", "", false)
	require.NoError(t, err)
	assert.Equal(t, Options{}, opts)
}

func TestParseWindow_OffsetKeepsWallClock(t *testing.T) {
	opts, err := ParseWindow("2024-03-02T00:00:00+02:00", "2024-03-02T23:00:00-05:00", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), *opts.Start)
	assert.Equal(t, time.Date(2024, 3, 2, 23, 0, 0, 0, time.UTC), *opts.End)
}

func TestParseWindow_Errors(t *testing.T) {
	_, err := ParseWindow("last week", "", false)
	assert.Error(t, err)

	_, err = ParseWindow("2024-03-05", "2024-03-01", false)
	assert.Error(t, err)
}
