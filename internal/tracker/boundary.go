package tracker

import (
	"time"

	"github.com/rcliao/babylog/internal/schema"
)

// Sleep types.
const (
	SleepNap   = "Nap"
	SleepNight = "Night"
)

// DayBoundary splits the clock into day and night. Night runs from
// NightStartHour through midnight to NightEndHour.
type DayBoundary struct {
	NightStartHour int
	NightEndHour   int
}

// DefaultBoundary is night from 18:00 to 06:00.
func DefaultBoundary() DayBoundary {
	return DayBoundary{NightStartHour: 18, NightEndHour: 6}
}

// Bucket returns the day an event at t belongs to. Times before the night end
// hour count toward the previous calendar day.
func (b DayBoundary) Bucket(t time.Time) time.Time {
	day := schema.StartOfDay(t)
	if t.Hour() < b.NightEndHour {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// Classify returns SleepNight when start falls in the night window, otherwise
// SleepNap.
func (b DayBoundary) Classify(start time.Time) string {
	h := start.Hour()
	if h >= b.NightStartHour || h < b.NightEndHour {
		return SleepNight
	}
	return SleepNap
}
