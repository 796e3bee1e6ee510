package domain

import (
	"fmt"
	"strings"
	"time"
)

// Zone is the single fixed zone all deadlines live in (UTC+5:30).
// Naive timestamps read from storage are interpreted in this zone.
var Zone = time.FixedZone("IST", 5*60*60+30*60)

// dueLayouts are tried in order when parsing a stored deadline. The first
// two carry an offset; the rest are naive and get Zone attached.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseDue parses an ISO-8601 deadline string, zoned or naive.
// Naive values are interpreted in Zone.
func ParseDue(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("parse due: empty string")
	}

	for _, layout := range dueLayouts {
		if strings.Contains(layout, "Z07") {
			if t, err := time.Parse(layout, s); err == nil {
				return t.In(Zone), nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, Zone); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("parse due %q: unrecognized format", raw)
}

// DayKey returns the calendar-day key ("YYYY-MM-DD") of t in Zone.
// Keys sort lexicographically in chronological order.
func DayKey(t time.Time) string {
	return t.In(Zone).Format("2006-01-02")
}

// FormatDue renders a deadline for chat messages ("Mon, Jan 02 at 03:04 PM").
func FormatDue(t time.Time) string {
	return t.In(Zone).Format("Mon, Jan 02 at 03:04 PM")
}
