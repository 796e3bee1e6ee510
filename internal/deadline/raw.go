package deadline

import (
	"strings"
	"time"
)

// RawExtraction holds the model's unvalidated claims about one task text.
// Every field may be empty or wrong; the Resolver validates and normalizes.
// It is produced once per extraction and never persisted.
type RawExtraction struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	Day           string `json:"day"`
	WeekdayAlias  string `json:"weekday"`
	ExplicitToday bool   `json:"explicit_today"`
	Text          string `json:"text"`
}

// WeekdayName returns the claimed weekday, accepting either the "day" or the
// "weekday" key since models use both.
func (r *RawExtraction) WeekdayName() string {
	if r.Day != "" {
		return r.Day
	}
	return r.WeekdayAlias
}

// weekdayIndex maps a weekday name (full or three-letter prefix, any case)
// to Go's time.Weekday numbering. The second result is false for anything
// that is not a weekday name.
func weekdayIndex(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) < 3 {
		return 0, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, true
		}
	}
	return 0, false
}
