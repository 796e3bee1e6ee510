package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avasilev/taskpulse/internal/domain"
	"github.com/avasilev/taskpulse/pkg/ctxutil"
)

// Complete marks the acting user's assignment done. When the actor is the
// task creator, every open assignment is completed at once. The task itself
// flips to done as soon as no open assignment remains. An optional remark is
// stored on the completed assignments, attributed to the actor. Once the
// task is done the creator's confirmation message is rewritten in place.
func (s *Service) Complete(ctx context.Context, taskID uuid.UUID, remark *string) error {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return domain.ErrForbidden
	}

	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if t.Done {
		return fmt.Errorf("task %s: %w", taskID, domain.ErrAlreadyDone)
	}

	now := s.now()
	remarks := s.attributedRemark(ctx, remark, actorID)

	var taskDone bool
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if actorID == t.CreatorID {
			if _, allErr := s.assignments.MarkAllDone(txCtx, taskID, now, remarks); allErr != nil {
				return fmt.Errorf("complete all assignments: %w", allErr)
			}
			taskDone = true
			return s.tasks.MarkDone(txCtx, taskID, now)
		}

		if doneErr := s.assignments.MarkDone(txCtx, taskID, actorID, now, remarks); doneErr != nil {
			return doneErr
		}

		open, countErr := s.assignments.CountOpen(txCtx, taskID)
		if countErr != nil {
			return fmt.Errorf("count open assignments: %w", countErr)
		}
		if open == 0 {
			taskDone = true
			return s.tasks.MarkDone(txCtx, taskID, now)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "task completed",
		"task_id", taskID, "actor_id", actorID, "by_creator", actorID == t.CreatorID)

	if actorID != t.CreatorID {
		actorName := s.users.DisplayName(ctx, actorID)
		s.notify(ctx, t.CreatorID, fmt.Sprintf("@%s completed: %s", actorName, t.Text))
	}

	if taskDone {
		s.rewriteNotice(ctx, t, fmt.Sprintf("✅ Completed: %s", t.Text))
	}

	return nil
}

// attributedRemark appends the actor's signature to a non-empty remark.
func (s *Service) attributedRemark(ctx context.Context, remark *string, actorID string) *string {
	if remark == nil || *remark == "" {
		return nil
	}
	signed := *remark + "\n\n— Added by @" + s.users.DisplayName(ctx, actorID)
	return &signed
}
