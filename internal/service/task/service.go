// Package task implements the task lifecycle business logic: creation with
// deadline resolution, assignment fan-out, completion, editing and deletion.
package task

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avasilev/taskpulse/internal/deadline"
	"github.com/avasilev/taskpulse/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type taskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListForUser(ctx context.Context, userID string) ([]domain.UserTask, error)
	MarkDone(ctx context.Context, id uuid.UUID, at time.Time) error
	SetNotice(ctx context.Context, id uuid.UUID, channel, ts string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type assignmentRepo interface {
	CreateBatch(ctx context.Context, taskID uuid.UUID, assignees []string) error
	Get(ctx context.Context, taskID uuid.UUID, assigneeID string) (*domain.Assignment, error)
	Assignees(ctx context.Context, taskID uuid.UUID) ([]string, error)
	MarkDone(ctx context.Context, taskID uuid.UUID, assigneeID string, at time.Time, remarks *string) error
	MarkAllDone(ctx context.Context, taskID uuid.UUID, at time.Time, remarks *string) (int64, error)
	CountOpen(ctx context.Context, taskID uuid.UUID) (int, error)
}

type deadlineResolver interface {
	Resolve(ctx context.Context, taskText string) deadline.ResolvedDeadline
}

type messenger interface {
	SendDM(ctx context.Context, userID, text string) error
	PostDM(ctx context.Context, userID, text string) (channelID, timestamp string, err error)
	UpdateMessage(ctx context.Context, channelID, timestamp, text string) error
}

type userDirectory interface {
	DisplayName(ctx context.Context, userID string) string
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the task business logic.
type Service struct {
	log         *slog.Logger
	tasks       taskRepo
	assignments assignmentRepo
	resolver    deadlineResolver
	msg         messenger
	users       userDirectory
	tx          txManager
	now         func() time.Time
}

// NewService creates a new task service.
func NewService(
	logger *slog.Logger,
	tasks taskRepo,
	assignments assignmentRepo,
	resolver deadlineResolver,
	msg messenger,
	users userDirectory,
	tx txManager,
) *Service {
	return &Service{
		log:         logger.With("service", "task"),
		tasks:       tasks,
		assignments: assignments,
		resolver:    resolver,
		msg:         msg,
		users:       users,
		tx:          tx,
		now:         func() time.Time { return time.Now().In(domain.Zone) },
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// mentionRE matches messenger mention tokens like <@U123ABC> or <@U123ABC|name>.
var mentionRE = regexp.MustCompile(`<@([A-Z0-9]+)(?:\|[^>]+)?>`)

// extractMentions returns the mentioned user IDs in order of first appearance,
// deduplicated.
func extractMentions(text string) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, m := range mentionRE.FindAllStringSubmatch(text, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		ids = append(ids, m[1])
	}
	return ids
}

// stripMentions removes mention tokens from the text and collapses the
// surrounding whitespace.
func stripMentions(text string) string {
	cleaned := mentionRE.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(cleaned), " ")
}

// dueString formats a resolved deadline as the stored ISO-8601 value.
// Returns nil when the deadline cannot be recombined into a timestamp.
func (s *Service) dueString(ctx context.Context, resolved deadline.ResolvedDeadline) *string {
	due, err := resolved.DueTime(s.now().Year())
	if err != nil {
		s.log.WarnContext(ctx, "unusable resolved deadline",
			"date", resolved.Date, "time", resolved.Time, "error", err)
		return nil
	}
	v := due.Format(time.RFC3339)
	return &v
}

// notify sends a DM and logs failures without propagating them. Delivery is
// best-effort; task state is already persisted by the time notify runs.
func (s *Service) notify(ctx context.Context, userID, text string) {
	if err := s.msg.SendDM(ctx, userID, text); err != nil {
		s.log.WarnContext(ctx, "notification failed", "user_id", userID, "error", err)
	}
}

// rewriteNotice edits the creator's confirmation message in place. A no-op
// when the task carries no message reference; failures are logged, not
// propagated.
func (s *Service) rewriteNotice(ctx context.Context, t *domain.Task, text string) {
	if t.NoticeChannel == nil || t.NoticeTS == nil {
		return
	}
	if err := s.msg.UpdateMessage(ctx, *t.NoticeChannel, *t.NoticeTS, text); err != nil {
		s.log.WarnContext(ctx, "confirmation update failed",
			"task_id", t.ID, "channel", *t.NoticeChannel, "error", err)
	}
}
