package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avasilev/taskpulse/internal/domain"
	"github.com/avasilev/taskpulse/pkg/ctxutil"
)

// Delete removes a task and its assignments. Only the creator may delete;
// assignees other than the actor are told the task is gone.
func (s *Service) Delete(ctx context.Context, taskID uuid.UUID) error {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return domain.ErrForbidden
	}

	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if t.CreatorID != actorID {
		return fmt.Errorf("task %s: only the creator can delete: %w", taskID, domain.ErrForbidden)
	}

	assignees, err := s.assignments.Assignees(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "task deleted", "task_id", taskID, "actor_id", actorID)

	creatorName := s.users.DisplayName(ctx, actorID)
	for _, uid := range assignees {
		if uid == actorID {
			continue
		}
		s.notify(ctx, uid, fmt.Sprintf("@%s deleted the task: %s", creatorName, t.Text))
	}

	return nil
}
