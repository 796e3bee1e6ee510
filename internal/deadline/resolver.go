package deadline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/avasilev/taskpulse/internal/domain"
)

// Extractor obtains the model's raw deadline claims for one task text.
// Implementations must return a non-nil error (not a partial result) for
// transport failures and unusable completions.
type Extractor interface {
	Extract(ctx context.Context, taskText string, snap Snapshot) (*RawExtraction, error)
}

// Options tunes the office-hour AM/PM inference.
type Options struct {
	// OfficeStartHour is the start-of-day threshold: a resolved hour below it
	// is ambiguous between AM and an intended PM time.
	OfficeStartHour int
	// EarlyHourFloor is the hour below which an AM reading is considered
	// implausible regardless of other signals.
	EarlyHourFloor int
}

// Resolver turns raw task text into a ResolvedDeadline. Resolve never returns
// an error: every failure mode degrades to a deterministic 24-hours-out
// fallback so the surrounding task-creation flow cannot block on deadline
// ambiguity.
type Resolver struct {
	extractor Extractor
	opts      Options
	log       *slog.Logger

	now func() time.Time // injection point for tests
}

// NewResolver creates a Resolver. Zero Options fields fall back to the
// defaults (office start 10, early floor 7).
func NewResolver(log *slog.Logger, extractor Extractor, opts Options) *Resolver {
	if opts.OfficeStartHour == 0 {
		opts.OfficeStartHour = 10
	}
	if opts.EarlyHourFloor == 0 {
		opts.EarlyHourFloor = 7
	}
	return &Resolver{
		extractor: extractor,
		opts:      opts,
		log:       log.With("component", "deadline_resolver"),
		now:       time.Now,
	}
}

// Resolve extracts and normalizes the deadline implied by taskText.
func (r *Resolver) Resolve(ctx context.Context, taskText string) ResolvedDeadline {
	snap := NewSnapshot(r.now())

	raw, err := r.extractor.Extract(ctx, taskText, snap)
	if err != nil {
		r.log.Warn("extraction failed, using 24h fallback", "error", err)
		return r.fallback(snap, taskText)
	}

	cleaned := strings.TrimSpace(raw.Text)
	if cleaned == "" {
		cleaned = strings.TrimSpace(taskText)
	}

	dateToken := strings.TrimSpace(raw.Date)

	// Weekday-only input: roll to the next occurrence, never same-day.
	if dateToken == "" {
		if target, ok := weekdayIndex(raw.WeekdayName()); ok {
			ahead := int(target - snap.At.Weekday())
			if ahead <= 0 {
				ahead += 7
			}
			dateToken = snap.At.AddDate(0, 0, ahead).Format("02:01")
		}
	}

	// A missing date never means "no deadline"; it means today.
	if dateToken == "" {
		dateToken = snap.Date
	}

	hour, minute, ok := ParseFlexibleTime(raw.Time)
	if !ok {
		hour, minute = 23, 59 // end of day
	}

	day, month, err := parseDateToken(dateToken)
	if err != nil {
		r.log.Warn("unusable date token, using 24h fallback", "token", dateToken, "error", err)
		return r.fallback(snap, taskText)
	}

	candidate := time.Date(snap.At.Year(), month, day, hour, minute, 0, 0, domain.Zone)
	candidate = r.inferOfficeHours(candidate, snap, raw.ExplicitToday)

	// A candidate still in the past rolls the date forward one day; the time
	// component never moves. explicit_today pins the date even if that leaves
	// the deadline behind now.
	if candidate.Before(snap.At) && !raw.ExplicitToday {
		candidate = candidate.AddDate(0, 0, 1)
	}

	return ResolvedDeadline{
		Date:    candidate.Format("02:01"),
		Time:    candidate.Format("15:04"),
		Weekday: candidate.Weekday().String(),
		Text:    cleaned,
	}
}

// inferOfficeHours disambiguates an early resolved hour as an intended PM
// time. The +12h shift applies when the hour is below the office-start
// threshold and one of:
//   - the model flagged "today" explicitly (same-day PM preferred, even if
//     that deadline ends up in the past);
//   - the AM reading is already behind now but the PM one is not;
//   - the hour is implausibly early and the PM reading is still ahead.
func (r *Resolver) inferOfficeHours(candidate time.Time, snap Snapshot, explicitToday bool) time.Time {
	if candidate.Hour() >= r.opts.OfficeStartHour {
		return candidate
	}

	pm := candidate.Add(12 * time.Hour)
	switch {
	case explicitToday:
		return pm
	case candidate.Before(snap.At) && !pm.Before(snap.At):
		return pm
	case candidate.Hour() < r.opts.EarlyHourFloor && !pm.Before(snap.At):
		return pm
	}
	return candidate
}

// fallback is the deterministic degradation path: exactly 24 hours out, with
// the original task text verbatim since cleanup depends on the model.
func (r *Resolver) fallback(snap Snapshot, taskText string) ResolvedDeadline {
	due := snap.At.Add(24 * time.Hour)
	return ResolvedDeadline{
		Date:    due.Format("02:01"),
		Time:    due.Format("15:04"),
		Weekday: due.Weekday().String(),
		Text:    strings.TrimSpace(taskText),
	}
}

// parseDateToken splits a DD:MM token into its components.
func parseDateToken(token string) (day int, month time.Month, err error) {
	t, perr := time.Parse("02:01", token)
	if perr != nil {
		return 0, 0, perr
	}
	return t.Day(), t.Month(), nil
}
