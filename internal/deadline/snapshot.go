// Package deadline turns free-form task text into a structured, timezone-aware
// deadline. An LLM extracts the raw date/time/weekday claims; the Resolver
// normalizes them (weekday rollover, AM/PM office-hour inference, past-time
// correction) and always produces a fully populated result, falling back to a
// fixed 24-hours-out default when extraction fails.
package deadline

import (
	"time"

	"github.com/avasilev/taskpulse/internal/domain"
)

// Snapshot is an immutable capture of "now" taken once per resolution call.
// All relative expressions in the task text ("today", "Friday", "230") are
// grounded against it.
type Snapshot struct {
	At      time.Time // zoned, seconds truncated
	Weekday string    // full weekday name, e.g. "Monday"
	Date    string    // DD:MM
	Time    string    // HH:MM, 24-hour
}

// NewSnapshot captures the current moment in the fixed zone with seconds
// truncated, so repeated formatting within one resolution is stable.
func NewSnapshot(at time.Time) Snapshot {
	t := at.In(domain.Zone).Truncate(time.Minute)
	return Snapshot{
		At:      t,
		Weekday: t.Weekday().String(),
		Date:    t.Format("02:01"),
		Time:    t.Format("15:04"),
	}
}
