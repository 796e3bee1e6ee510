package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/avasilev/taskpulse/internal/domain"
)

// CreateInput holds the parameters for creating a task.
type CreateInput struct {
	CreatorID string
	Text      string
	FileURL   *string
}

// Validate checks the input fields.
func (i *CreateInput) Validate() error {
	if i.CreatorID == "" {
		return fmt.Errorf("creator_id: required: %w", domain.ErrValidation)
	}
	if strings.TrimSpace(i.Text) == "" {
		return fmt.Errorf("text: required: %w", domain.ErrValidation)
	}
	return nil
}

// Create resolves the deadline out of the task text, persists the task with
// one assignment per mentioned user (the creator when nobody is mentioned)
// and notifies every assignee. Notification failures do not fail the call.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Task, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	assignees := extractMentions(input.Text)
	if len(assignees) == 0 {
		assignees = []string{input.CreatorID}
	}

	cleaned := stripMentions(input.Text)
	if cleaned == "" {
		return nil, fmt.Errorf("text: only mentions: %w", domain.ErrValidation)
	}

	resolved := s.resolver.Resolve(ctx, cleaned)

	now := s.now()
	t := &domain.Task{
		ID:        uuid.New(),
		CreatorID: input.CreatorID,
		Text:      resolved.Text,
		CreatedAt: now,
		Due:       s.dueString(ctx, resolved),
		FileURL:   input.FileURL,
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.tasks.Create(txCtx, t); createErr != nil {
			return fmt.Errorf("create task: %w", createErr)
		}
		if assignErr := s.assignments.CreateBatch(txCtx, t.ID, assignees); assignErr != nil {
			return fmt.Errorf("create assignments: %w", assignErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "task created",
		"task_id", t.ID, "creator_id", t.CreatorID, "assignees", len(assignees))

	creatorName := s.users.DisplayName(ctx, input.CreatorID)
	for _, uid := range assignees {
		if uid == input.CreatorID {
			continue
		}
		s.notify(ctx, uid, fmt.Sprintf("New task from @%s: %s%s", creatorName, t.Text, dueSuffix(t.Due)))
	}
	s.confirmToCreator(ctx, t)

	return t, nil
}

// confirmToCreator DMs the confirmation to the creator and records the
// message reference on the task so later completion and edits can rewrite
// it in place. Best-effort on both steps.
func (s *Service) confirmToCreator(ctx context.Context, t *domain.Task) {
	channel, ts, err := s.msg.PostDM(ctx, t.CreatorID, fmt.Sprintf("Task created: %s%s", t.Text, dueSuffix(t.Due)))
	if err != nil {
		s.log.WarnContext(ctx, "notification failed", "user_id", t.CreatorID, "error", err)
		return
	}
	if err := s.tasks.SetNotice(ctx, t.ID, channel, ts); err != nil {
		s.log.WarnContext(ctx, "storing confirmation reference failed", "task_id", t.ID, "error", err)
		return
	}
	t.NoticeChannel = &channel
	t.NoticeTS = &ts
}

// dueSuffix renders the human-readable deadline fragment for notifications.
func dueSuffix(due *string) string {
	if due == nil {
		return ""
	}
	t, err := domain.ParseDue(*due)
	if err != nil {
		return ""
	}
	return " (due " + domain.FormatDue(t) + ")"
}
