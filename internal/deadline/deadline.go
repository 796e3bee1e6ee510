package deadline

import (
	"fmt"
	"time"

	"github.com/avasilev/taskpulse/internal/domain"
)

// ResolvedDeadline is the resolver's always-populated output. It deliberately
// carries no year and no zone marker: tasks are assumed due within the current
// year, and every deadline lives in the single fixed zone. Callers re-combine
// Date and Time with a year via DueTime to build an absolute instant.
type ResolvedDeadline struct {
	Date    string // DD:MM, zero-padded
	Time    string // HH:MM, 24-hour, zero-padded
	Weekday string // full weekday name matching Date
	Text    string // cleaned description, or the original text verbatim on fallback
}

// DueTime combines the resolved tokens with the given year into an absolute
// instant in the fixed zone.
func (r ResolvedDeadline) DueTime(year int) (time.Time, error) {
	t, err := time.ParseInLocation("02:01:2006 15:04", fmt.Sprintf("%s:%d %s", r.Date, year, r.Time), domain.Zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("combine deadline %q %q: %w", r.Date, r.Time, err)
	}
	return t, nil
}
