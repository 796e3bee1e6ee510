package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/avasilev/taskpulse/internal/domain"
	"github.com/avasilev/taskpulse/pkg/ctxutil"
)

// Edit replaces a task's text, re-resolving the deadline from the new
// wording. Under the hood the task is recreated: a fresh task row (keeping
// the original creator, file and assignee set) replaces the old one so the
// deadline, text and reminder state all reset together. Only the creator may
// edit. The creator's confirmation message carries over and is rewritten to
// the new wording.
func (s *Service) Edit(ctx context.Context, taskID uuid.UUID, newText string) (*domain.Task, error) {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(newText) == "" {
		return nil, fmt.Errorf("text: required: %w", domain.ErrValidation)
	}

	old, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if old.CreatorID != actorID {
		return nil, fmt.Errorf("task %s: only the creator can edit: %w", taskID, domain.ErrForbidden)
	}

	assignees, err := s.assignments.Assignees(ctx, taskID)
	if err != nil {
		return nil, err
	}

	// Mentions in the new text replace the assignee set; otherwise the
	// original assignees carry over.
	if mentioned := extractMentions(newText); len(mentioned) > 0 {
		assignees = mentioned
	}

	cleaned := stripMentions(newText)
	if cleaned == "" {
		return nil, fmt.Errorf("text: only mentions: %w", domain.ErrValidation)
	}

	resolved := s.resolver.Resolve(ctx, cleaned)

	replacement := &domain.Task{
		ID:            uuid.New(),
		CreatorID:     old.CreatorID,
		Text:          resolved.Text,
		CreatedAt:     s.now(),
		Due:           s.dueString(ctx, resolved),
		FileURL:       old.FileURL,
		NoticeChannel: old.NoticeChannel,
		NoticeTS:      old.NoticeTS,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.tasks.Create(txCtx, replacement); createErr != nil {
			return fmt.Errorf("create replacement task: %w", createErr)
		}
		if assignErr := s.assignments.CreateBatch(txCtx, replacement.ID, assignees); assignErr != nil {
			return fmt.Errorf("assign replacement task: %w", assignErr)
		}
		if replacement.NoticeChannel != nil && replacement.NoticeTS != nil {
			if noticeErr := s.tasks.SetNotice(txCtx, replacement.ID, *replacement.NoticeChannel, *replacement.NoticeTS); noticeErr != nil {
				return fmt.Errorf("carry confirmation reference: %w", noticeErr)
			}
		}
		if delErr := s.tasks.Delete(txCtx, taskID); delErr != nil {
			return fmt.Errorf("delete edited task: %w", delErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "task edited",
		"task_id", taskID, "replacement_id", replacement.ID, "actor_id", actorID)

	creatorName := s.users.DisplayName(ctx, actorID)
	for _, uid := range assignees {
		if uid == actorID {
			continue
		}
		s.notify(ctx, uid, fmt.Sprintf("@%s updated the task: %s%s", creatorName, replacement.Text, dueSuffix(replacement.Due)))
	}

	if replacement.NoticeChannel != nil {
		s.rewriteNotice(ctx, replacement, fmt.Sprintf("Task created: %s%s (edited)", replacement.Text, dueSuffix(replacement.Due)))
	} else {
		s.confirmToCreator(ctx, replacement)
	}

	return replacement, nil
}
