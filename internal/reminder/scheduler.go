// Package reminder runs the background loop that notifies assignees as task
// deadlines approach. Three independent triggers exist per open assignment:
// a daily nudge during a configured hour, a one-hour-before warning, and a
// half-hour-before warning. Each fires at most once per (task, assignee,
// kind, calendar day); delivery is best-effort and a failed send is never
// retried within the same day.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avasilev/taskpulse/internal/domain"
)

// AssignmentSource yields the open assignments whose tasks carry a deadline.
// Each tick takes a fresh read-only snapshot; the scheduler never writes back.
type AssignmentSource interface {
	ListPendingDue(ctx context.Context) ([]domain.PendingAssignment, error)
}

// Messenger delivers a direct message to one user. Failures are reported,
// logged, and otherwise ignored.
type Messenger interface {
	SendDM(ctx context.Context, userID, text string) error
}

// Config tunes the polling loop.
type Config struct {
	// Interval between ticks. The poll period bounds worst-case trigger
	// detection latency.
	Interval time.Duration
	// DailyHour is the wall-clock hour (fixed zone) during which the daily
	// nudge may fire.
	DailyHour int
	// Tolerance is the half-width of the window around the 1h and 30m marks.
	// It must exceed half the interval so a mark cannot fall between ticks.
	Tolerance time.Duration
	// RetainDays controls dedup-key eviction: keys older than this many days
	// are dropped.
	RetainDays int
}

// Scheduler is the polling loop. It owns its SentCache exclusively and runs
// on one goroutine; Run is the only suspension point.
type Scheduler struct {
	store AssignmentSource
	msg   Messenger
	sent  *SentCache
	cfg   Config
	log   *slog.Logger

	now func() time.Time // injection point for tests
}

// New creates a Scheduler. Zero config fields get the standard values
// (1-minute interval, 10 o'clock daily hour, 65-second tolerance, 2-day
// retention).
func New(log *slog.Logger, store AssignmentSource, msg Messenger, sent *SentCache, cfg Config) *Scheduler {
	if cfg.Interval == 0 {
		cfg.Interval = time.Minute
	}
	if cfg.DailyHour == 0 {
		cfg.DailyHour = 10
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = 65 * time.Second
	}
	if cfg.RetainDays == 0 {
		cfg.RetainDays = 2
	}
	return &Scheduler{
		store: store,
		msg:   msg,
		sent:  sent,
		cfg:   cfg,
		log:   log.With("component", "reminder_scheduler"),
		now:   time.Now,
	}
}

// Run polls until ctx is canceled. A panic or error inside one iteration is
// logged and the loop continues after the normal interval; nothing short of
// cancellation stops it.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("reminder scheduler started", "interval", s.cfg.Interval)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		s.safeTick(ctx)
		select {
		case <-ctx.Done():
			s.log.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("tick panicked", "panic", fmt.Sprint(r))
		}
	}()

	if err := s.Tick(ctx); err != nil {
		s.log.Error("tick failed", "error", err)
	}
}

// Tick performs one scan. It is exported so a one-shot command can run a
// single iteration under external scheduling.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := s.now().In(domain.Zone)
	day := domain.DayKey(now)

	pending, err := s.store.ListPendingDue(ctx)
	if err != nil {
		return fmt.Errorf("list pending assignments: %w", err)
	}

	for _, a := range pending {
		if a.AssigneeID == "" {
			continue
		}

		due, err := domain.ParseDue(a.DueRaw)
		if err != nil {
			// Skipped, not retried: the row stays broken until edited.
			s.log.Warn("skipping assignment with unparseable due",
				"task_id", a.TaskID, "assignee_id", a.AssigneeID, "due", a.DueRaw, "error", err)
			continue
		}

		left := due.Sub(now)

		if now.Hour() == s.cfg.DailyHour {
			s.fire(ctx, Key{a.TaskID, a.AssigneeID, KindDaily, day},
				fmt.Sprintf("Gentle reminder: task *%s* (ID: %s) is still pending.", a.TaskText, a.TaskID))
		}
		if s.inWindow(left, time.Hour) {
			s.fire(ctx, Key{a.TaskID, a.AssigneeID, KindHour, day},
				fmt.Sprintf("Reminder: task *%s* (ID: %s) is due in 1 hour!", a.TaskText, a.TaskID))
		}
		if s.inWindow(left, 30*time.Minute) {
			s.fire(ctx, Key{a.TaskID, a.AssigneeID, KindHalf, day},
				fmt.Sprintf("Reminder: task *%s* (ID: %s) is due in 30 minutes!", a.TaskText, a.TaskID))
		}
	}

	cutoff := domain.DayKey(now.AddDate(0, 0, -s.cfg.RetainDays))
	if evicted := s.sent.Evict(cutoff); evicted > 0 {
		s.log.Debug("evicted stale dedup keys", "count", evicted, "cutoff", cutoff)
	}

	return nil
}

// inWindow reports whether left is within the tolerance band around mark.
func (s *Scheduler) inWindow(left, mark time.Duration) bool {
	d := left - mark
	if d < 0 {
		d = -d
	}
	return d < s.cfg.Tolerance
}

// fire delivers one reminder at most once. The dedup key is recorded before
// the delivery attempt, so a failed send does not repeat on the next tick.
func (s *Scheduler) fire(ctx context.Context, k Key, text string) {
	if !s.sent.MarkIfNew(k) {
		return
	}

	if err := s.msg.SendDM(ctx, k.AssigneeID, text); err != nil {
		s.log.Error("reminder delivery failed",
			"task_id", k.TaskID, "assignee_id", k.AssigneeID, "kind", k.Kind, "error", err)
	}
}
