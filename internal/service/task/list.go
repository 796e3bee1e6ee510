package task

import (
	"context"

	"github.com/avasilev/taskpulse/internal/domain"
	"github.com/avasilev/taskpulse/pkg/ctxutil"
)

// ListForUser returns the acting user's tasks, both created and assigned,
// newest first.
func (s *Service) ListForUser(ctx context.Context) ([]domain.UserTask, error) {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrForbidden
	}
	return s.tasks.ListForUser(ctx, actorID)
}
