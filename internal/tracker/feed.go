package tracker

import (
	"slices"
	"strings"
	"time"

	"github.com/rcliao/babylog/internal/dataset"
	"github.com/rcliao/babylog/internal/numeric"
	"github.com/rcliao/babylog/internal/schema"
)

// DefaultSessionGap is the largest pause between two feeds that still counts
// as one session.
const DefaultSessionGap = 15 * time.Minute

// MixedSessionType is the type of a session merged from feeds of different
// types.
const MixedSessionType = "session"

// FeedingSession is one feed or several adjacent feeds merged together.
type FeedingSession struct {
	ID       string
	Start    time.Time
	End      time.Time
	Time     time.Time
	Day      time.Time
	Type     string
	Quantity float64
	Duration float64
	Note     string
}

// SessionFromRecord converts a feed record. Records without a start are
// rejected; a missing end collapses to the start.
func SessionFromRecord(rec schema.Record) (FeedingSession, bool) {
	start, ok := rec.Time(FieldStart)
	if !ok {
		return FeedingSession{}, false
	}
	end, ok := rec.Time(FieldEnd)
	if !ok || end.Before(start) {
		end = start
	}
	q, _ := rec.Float(FieldQuantity)
	d, _ := rec.Float(FieldDuration)
	return newSession(rec.Str(FieldID), start, end, rec.Str(FieldType), q, d, rec.Str(FieldNote)), true
}

func newSession(id string, start, end time.Time, typ string, quantity, duration float64, note string) FeedingSession {
	mid := midpoint(start, end)
	return FeedingSession{
		ID:       id,
		Start:    start,
		End:      end,
		Time:     mid,
		Day:      schema.StartOfDay(mid),
		Type:     typ,
		Quantity: quantity,
		Duration: duration,
		Note:     note,
	}
}

// CombineFeedings merges two sessions. Start and end take the outer bounds;
// quantity and duration are summed.
func CombineFeedings(a, b FeedingSession) FeedingSession {
	start := a.Start
	if b.Start.Before(start) {
		start = b.Start
	}
	end := a.End
	if b.End.After(end) {
		end = b.End
	}
	typ := a.Type
	if a.Type != b.Type {
		typ = MixedSessionType
	}
	return newSession(
		joinNonEmpty("+", a.ID, b.ID),
		start, end, typ,
		a.Quantity+b.Quantity,
		a.Duration+b.Duration,
		joinNonEmpty(" ", a.Note, b.Note),
	)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// FeedingSessions orders feeds by start and merges each feed into the current
// session when it starts no more than gap after the session ends.
func FeedingSessions(ds *dataset.Dataset, gap time.Duration) []FeedingSession {
	var feeds []FeedingSession
	for _, rec := range ds.Records() {
		if s, ok := SessionFromRecord(rec); ok {
			feeds = append(feeds, s)
		}
	}
	slices.SortStableFunc(feeds, func(a, b FeedingSession) int { return a.Start.Compare(b.Start) })

	var sessions []FeedingSession
	for _, f := range feeds {
		if n := len(sessions); n > 0 && f.Start.Sub(sessions[n-1].End) <= gap {
			sessions[n-1] = CombineFeedings(sessions[n-1], f)
			continue
		}
		sessions = append(sessions, f)
	}
	return sessions
}

// MedianTimeBetweenFeedings returns, per day with at least two sessions, the
// median hours between consecutive session starts (one decimal) and the
// session count.
func MedianTimeBetweenFeedings(sessions []FeedingSession) *dataset.Table {
	byDay := map[int64][]FeedingSession{}
	days := map[int64]time.Time{}
	for _, s := range sessions {
		k := s.Day.Unix()
		byDay[k] = append(byDay[k], s)
		days[k] = s.Day
	}

	t := dataset.NewTable(
		dataset.ColumnDescriptor{ID: FieldDay, Label: "Day", Type: dataset.TypeName(schema.KindDate)},
		dataset.ColumnDescriptor{ID: "medianGap", Label: "Median hours between feedings", Type: dataset.TypeName(schema.KindNumber)},
		dataset.ColumnDescriptor{ID: "count", Label: "Feedings", Type: dataset.TypeName(schema.KindNumber)},
	)
	keys := make([]int64, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		group := byDay[k]
		if len(group) < 2 {
			continue
		}
		slices.SortStableFunc(group, func(a, b FeedingSession) int { return a.Start.Compare(b.Start) })
		gaps := make([]float64, 0, len(group)-1)
		for i := 1; i < len(group); i++ {
			gaps = append(gaps, group[i].Start.Sub(group[i-1].Start).Hours())
		}
		t.Rows = append(t.Rows, []schema.Value{
			schema.Date(days[k]),
			schema.Number(numeric.Round(numeric.Median(gaps), 1)),
			schema.Number(float64(len(group))),
		})
	}
	return t
}
