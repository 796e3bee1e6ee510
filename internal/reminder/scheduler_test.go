package reminder

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/avasilev/taskpulse/internal/domain"
)

// sourceMock implements AssignmentSource.
type sourceMock struct {
	ListPendingDueFunc func(ctx context.Context) ([]domain.PendingAssignment, error)
}

func (m *sourceMock) ListPendingDue(ctx context.Context) ([]domain.PendingAssignment, error) {
	return m.ListPendingDueFunc(ctx)
}

// messengerMock implements Messenger and records every delivery.
type messengerMock struct {
	mu      sync.Mutex
	sendErr error
	sent    []string // "userID|text"
}

func (m *messengerMock) SendDM(_ context.Context, userID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, userID+"|"+text)
	return m.sendErr
}

func (m *messengerMock) deliveries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func newTestScheduler(t *testing.T, src *sourceMock, msg *messengerMock) *Scheduler {
	t.Helper()
	return New(slog.Default(), src, msg, NewSentCache(), Config{
		Interval:   time.Minute,
		DailyHour:  10,
		Tolerance:  65 * time.Second,
		RetainDays: 2,
	})
}

func fixedAssignment(due time.Time) domain.PendingAssignment {
	return domain.PendingAssignment{
		TaskID:     uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		AssigneeID: "U123",
		TaskText:   "ship the release",
		DueRaw:     due.Format(time.RFC3339),
	}
}

func TestTick_OneHourReminderFiresExactlyOnceAcrossWindow(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, 3, 4, 16, 0, 0, 0, domain.Zone)
	a := fixedAssignment(due)

	src := &sourceMock{ListPendingDueFunc: func(context.Context) ([]domain.PendingAssignment, error) {
		return []domain.PendingAssignment{a}, nil
	}}
	msg := &messengerMock{}
	s := newTestScheduler(t, src, msg)

	// Sweep ticks at 30-second granularity from 10 minutes before the 1-hour
	// mark to 10 minutes after it. Several ticks land inside the tolerance
	// window; exactly one delivery must happen.
	start := due.Add(-70 * time.Minute)
	for offset := time.Duration(0); offset <= 20*time.Minute; offset += 30 * time.Second {
		now := start.Add(offset)
		s.now = func() time.Time { return now }
		if err := s.Tick(context.Background()); err != nil {
			t.Fatalf("tick at %v: %v", now, err)
		}
	}

	got := msg.deliveries()
	if len(got) != 1 {
		t.Fatalf("deliveries: got %d, want exactly 1: %v", len(got), got)
	}
	if !strings.Contains(got[0], "due in 1 hour") {
		t.Errorf("unexpected message: %q", got[0])
	}
}

func TestTick_HalfHourReminderIndependentOfHourReminder(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, 3, 4, 16, 0, 0, 0, domain.Zone)
	a := fixedAssignment(due)

	src := &sourceMock{ListPendingDueFunc: func(context.Context) ([]domain.PendingAssignment, error) {
		return []domain.PendingAssignment{a}, nil
	}}
	msg := &messengerMock{}
	s := newTestScheduler(t, src, msg)

	for _, lead := range []time.Duration{time.Hour, 30 * time.Minute} {
		now := due.Add(-lead)
		s.now = func() time.Time { return now }
		if err := s.Tick(context.Background()); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}

	got := msg.deliveries()
	if len(got) != 2 {
		t.Fatalf("deliveries: got %d, want 2: %v", len(got), got)
	}
	if !strings.Contains(got[0], "1 hour") || !strings.Contains(got[1], "30 minutes") {
		t.Errorf("unexpected messages: %v", got)
	}
}

func TestTick_DailyReminderOnlyDuringConfiguredHour(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, 3, 10, 23, 59, 0, 0, domain.Zone)
	a := fixedAssignment(due)

	src := &sourceMock{ListPendingDueFunc: func(context.Context) ([]domain.PendingAssignment, error) {
		return []domain.PendingAssignment{a}, nil
	}}
	msg := &messengerMock{}
	s := newTestScheduler(t, src, msg)

	// 09:59 — outside the daily hour.
	s.now = func() time.Time { return time.Date(2024, 3, 4, 9, 59, 0, 0, domain.Zone) }
	if err := s.Tick(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(msg.deliveries()) != 0 {
		t.Fatalf("no delivery expected before the daily hour, got %v", msg.deliveries())
	}

	// Repeated ticks inside the 10 o'clock hour fire once.
	for _, minute := range []int{0, 1, 30, 59} {
		min := minute
		s.now = func() time.Time { return time.Date(2024, 3, 4, 10, min, 0, 0, domain.Zone) }
		if err := s.Tick(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	got := msg.deliveries()
	if len(got) != 1 {
		t.Fatalf("daily deliveries: got %d, want 1: %v", len(got), got)
	}
	if !strings.Contains(got[0], "still pending") {
		t.Errorf("unexpected message: %q", got[0])
	}

	// Next calendar day: the daily reminder fires again.
	s.now = func() time.Time { return time.Date(2024, 3, 5, 10, 0, 0, 0, domain.Zone) }
	if err := s.Tick(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(msg.deliveries()) != 2 {
		t.Fatalf("expected a fresh daily delivery after day rollover, got %v", msg.deliveries())
	}
}

func TestTick_DeliveryFailureDoesNotRepeat(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, 3, 4, 16, 0, 0, 0, domain.Zone)
	a := fixedAssignment(due)

	src := &sourceMock{ListPendingDueFunc: func(context.Context) ([]domain.PendingAssignment, error) {
		return []domain.PendingAssignment{a}, nil
	}}
	msg := &messengerMock{sendErr: errors.New("user has no open channel")}
	s := newTestScheduler(t, src, msg)

	now := due.Add(-time.Hour)
	s.now = func() time.Time { return now }
	for i := 0; i < 3; i++ {
		if err := s.Tick(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	// At-most-once: the key was recorded before the failed attempt, so only
	// one send was ever tried.
	if len(msg.deliveries()) != 1 {
		t.Fatalf("attempts: got %d, want 1", len(msg.deliveries()))
	}
}

func TestTick_UnparseableDueSkippedWithoutAbort(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, 3, 4, 16, 0, 0, 0, domain.Zone)
	broken := domain.PendingAssignment{
		TaskID:     uuid.New(),
		AssigneeID: "U999",
		TaskText:   "broken row",
		DueRaw:     "not-a-timestamp",
	}
	good := fixedAssignment(due)

	src := &sourceMock{ListPendingDueFunc: func(context.Context) ([]domain.PendingAssignment, error) {
		return []domain.PendingAssignment{broken, good}, nil
	}}
	msg := &messengerMock{}
	s := newTestScheduler(t, src, msg)

	s.now = func() time.Time { return due.Add(-time.Hour) }
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("broken row must not fail the tick: %v", err)
	}

	got := msg.deliveries()
	if len(got) != 1 || !strings.HasPrefix(got[0], "U123|") {
		t.Fatalf("only the good row should deliver, got %v", got)
	}
}

func TestTick_EmptyAssigneeSkipped(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, 3, 4, 16, 0, 0, 0, domain.Zone)
	a := fixedAssignment(due)
	a.AssigneeID = ""

	src := &sourceMock{ListPendingDueFunc: func(context.Context) ([]domain.PendingAssignment, error) {
		return []domain.PendingAssignment{a}, nil
	}}
	msg := &messengerMock{}
	s := newTestScheduler(t, src, msg)

	s.now = func() time.Time { return due.Add(-time.Hour) }
	if err := s.Tick(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(msg.deliveries()) != 0 {
		t.Fatalf("unassigned rows must not deliver, got %v", msg.deliveries())
	}
}

func TestTick_StoreErrorReturnedNotFatal(t *testing.T) {
	t.Parallel()

	src := &sourceMock{ListPendingDueFunc: func(context.Context) ([]domain.PendingAssignment, error) {
		return nil, errors.New("connection refused")
	}}
	msg := &messengerMock{}
	s := newTestScheduler(t, src, msg)

	if err := s.Tick(context.Background()); err == nil {
		t.Fatal("expected error to surface to the loop's logger")
	}
	// safeTick swallows it: the loop keeps running.
	s.safeTick(context.Background())
}

func TestTick_EvictsKeysPastRetention(t *testing.T) {
	t.Parallel()

	src := &sourceMock{ListPendingDueFunc: func(context.Context) ([]domain.PendingAssignment, error) {
		return nil, nil
	}}
	msg := &messengerMock{}
	s := newTestScheduler(t, src, msg)

	s.sent.MarkIfNew(Key{TaskID: uuid.New(), AssigneeID: "U1", Kind: KindDaily, Day: "2024-03-01"})
	s.sent.MarkIfNew(Key{TaskID: uuid.New(), AssigneeID: "U1", Kind: KindDaily, Day: "2024-03-03"})

	s.now = func() time.Time { return time.Date(2024, 3, 4, 12, 0, 0, 0, domain.Zone) }
	if err := s.Tick(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Cutoff is 2024-03-02: the March 1 key goes, the March 3 key stays.
	if s.sent.Len() != 1 {
		t.Errorf("cache len: got %d, want 1", s.sent.Len())
	}
}
