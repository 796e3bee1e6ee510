package deadline

import (
	"strings"
	"time"
)

// timeLayouts are tried in order: 24-hour HH:MM, then 12-hour variants with a
// trailing AM/PM marker (with or without a space, with or without a colon),
// then a bare "HH MM". Dots are normalized to colons before matching, so
// "14.30" parses as "14:30".
var timeLayouts = []string{
	"15:04",
	"3:04PM",
	"3:04 PM",
	"0304PM",
	"0304 PM",
	"15 04",
}

// ParseFlexibleTime parses a loosely formatted time fragment into an hour
// (0-23) and minute (0-59). The boolean reports whether any format matched;
// callers treat a mismatch the same as "no time given". It never panics and
// never returns an error: unrecognized input is simply not a time.
func ParseFlexibleTime(s string) (hour, minute int, ok bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ".", ":")
	if s == "" {
		return 0, 0, false
	}
	s = padColonless(s)

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour(), t.Minute(), true
		}
	}

	return 0, 0, false
}

// padColonless prepends a zero to colonless three-digit 12-hour fragments
// ("230PM" -> "0230PM"). time.Parse reads the hour greedily without
// backtracking, so "230PM" against a "0304PM"-style layout would otherwise
// take "23" as the hour and fail the 12-hour range check.
func padColonless(s string) string {
	for _, marker := range []string{"AM", "PM"} {
		digits, found := strings.CutSuffix(s, marker)
		if !found {
			continue
		}
		digits = strings.TrimSuffix(digits, " ")
		if len(digits) == 3 && isDigits(digits) {
			return "0" + s
		}
	}
	return s
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
