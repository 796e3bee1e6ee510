// Package assignment implements the task_assignments repository using PostgreSQL.
package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/avasilev/taskpulse/internal/adapter/postgres"
	"github.com/avasilev/taskpulse/internal/domain"
)

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const table = "task_assignments"

// assignmentRow mirrors the task_assignments table for scany.
type assignmentRow struct {
	ID          uuid.UUID  `db:"id"`
	TaskID      uuid.UUID  `db:"task_id"`
	AssigneeID  string     `db:"assignee_id"`
	Done        bool       `db:"done"`
	CompletedAt *time.Time `db:"completed_at"`
	Remarks     *string    `db:"remarks"`
}

// Repo provides assignment persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new assignment repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// CreateBatch inserts one assignment row per assignee for the given task.
func (r *Repo) CreateBatch(ctx context.Context, taskID uuid.UUID, assignees []string) error {
	if len(assignees) == 0 {
		return nil
	}
	q := postgres.FromCtx(ctx, r.q)

	ib := builder.Insert(table).Columns("id", "task_id", "assignee_id")
	for _, uid := range assignees {
		ib = ib.Values(uuid.New(), taskID, uid)
	}

	sql, args, err := ib.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "assignment", taskID)
	}
	return nil
}

// Get returns the assignment of one assignee on one task. Returns
// domain.ErrNotFound if the user is not assigned to the task.
func (r *Repo) Get(ctx context.Context, taskID uuid.UUID, assigneeID string) (*domain.Assignment, error) {
	q := postgres.FromCtx(ctx, r.q)

	sql, args, err := builder.
		Select("id", "task_id", "assignee_id", "done", "completed_at", "remarks").
		From(table).
		Where(squirrel.Eq{"task_id": taskID, "assignee_id": assigneeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row assignmentRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "assignment", taskID)
	}

	a := domain.Assignment(row)
	return &a, nil
}

// Assignees returns the assignee IDs of a task in insertion order.
func (r *Repo) Assignees(ctx context.Context, taskID uuid.UUID) ([]string, error) {
	q := postgres.FromCtx(ctx, r.q)

	sql, args, err := builder.Select("assignee_id").From(table).
		Where(squirrel.Eq{"task_id": taskID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var ids []string
	if err := pgxscan.Select(ctx, q, &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("list assignees of task %s: %w", taskID, err)
	}
	return ids, nil
}

// MarkDone completes a single assignment, recording the completion time and
// an optional remark. Returns domain.ErrNotFound if the assignment does not
// exist and domain.ErrAlreadyDone if it was completed earlier.
func (r *Repo) MarkDone(ctx context.Context, taskID uuid.UUID, assigneeID string, at time.Time, remarks *string) error {
	q := postgres.FromCtx(ctx, r.q)

	sql, args, err := builder.Update(table).
		Set("done", true).
		Set("completed_at", at).
		Set("remarks", remarks).
		Where(squirrel.Eq{"task_id": taskID, "assignee_id": assigneeID, "done": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "assignment", taskID)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing assignment from one completed earlier.
		if _, getErr := r.Get(ctx, taskID, assigneeID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("assignment of %s on task %s: %w", assigneeID, taskID, domain.ErrAlreadyDone)
	}
	return nil
}

// MarkAllDone completes every open assignment of a task and returns how many
// rows it flipped.
func (r *Repo) MarkAllDone(ctx context.Context, taskID uuid.UUID, at time.Time, remarks *string) (int64, error) {
	q := postgres.FromCtx(ctx, r.q)

	sql, args, err := builder.Update(table).
		Set("done", true).
		Set("completed_at", at).
		Set("remarks", remarks).
		Where(squirrel.Eq{"task_id": taskID, "done": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "assignment", taskID)
	}
	return tag.RowsAffected(), nil
}

// CountOpen returns the number of assignments of the task not yet completed.
func (r *Repo) CountOpen(ctx context.Context, taskID uuid.UUID) (int, error) {
	q := postgres.FromCtx(ctx, r.q)

	sql, args, err := builder.Select("COUNT(*)").From(table).
		Where(squirrel.Eq{"task_id": taskID, "done": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build select: %w", err)
	}

	var n int
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count open assignments of task %s: %w", taskID, err)
	}
	return n, nil
}

// ListPendingDue returns every open assignment whose task still carries a
// deadline, for the reminder sweep. The deadline comes back raw; callers own
// parsing.
func (r *Repo) ListPendingDue(ctx context.Context) ([]domain.PendingAssignment, error) {
	q := postgres.FromCtx(ctx, r.q)

	sql, args, err := builder.
		Select("ta.task_id", "ta.assignee_id", "t.text AS task_text", "t.due AS due_raw").
		From("task_assignments ta").
		Join("tasks t ON t.id = ta.task_id").
		Where(squirrel.Eq{"ta.done": false}).
		Where("t.due IS NOT NULL").
		OrderBy("t.due").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []pendingRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list pending assignments: %w", err)
	}

	out := make([]domain.PendingAssignment, len(rows))
	for i, row := range rows {
		out[i] = domain.PendingAssignment(row)
	}
	return out, nil
}

// pendingRow mirrors the ListPendingDue join for scany.
type pendingRow struct {
	TaskID     uuid.UUID `db:"task_id"`
	AssigneeID string    `db:"assignee_id"`
	TaskText   string    `db:"task_text"`
	DueRaw     string    `db:"due_raw"`
}
