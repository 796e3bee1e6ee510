// Package task implements the tasks repository using PostgreSQL.
package task

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

// builder produces PostgreSQL-flavored ($1, $2, ...) statements.
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const table = "tasks"

var columns = []string{"id", "creator_id", "text", "created_at", "due", "file_url", "done", "completed_at", "notice_channel", "notice_ts"}

// taskRow mirrors the tasks table for scany.
type taskRow struct {
	ID            uuid.UUID  `db:"id"`
	CreatorID     string     `db:"creator_id"`
	Text          string     `db:"text"`
	CreatedAt     time.Time  `db:"created_at"`
	Due           *string    `db:"due"`
	FileURL       *string    `db:"file_url"`
	Done          bool       `db:"done"`
	CompletedAt   *time.Time `db:"completed_at"`
	NoticeChannel *string    `db:"notice_channel"`
	NoticeTS      *string    `db:"notice_ts"`
}

// Repo provides task persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new task repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// Create inserts a new task row.
func (r *Repo) Create(ctx context.Context, t *domain.Task) error {
	q := postgres.FromCtx(ctx, r.q)

	sql, args, err := builder.Insert(table).
		Columns("id", "creator_id", "text", "created_at", "due", "file_url").
		Values(t.ID, t.CreatorID, t.Text, t.CreatedAt, t.Due, t.FileURL).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "task", t.ID)
	}
	return nil
}

// GetByID returns a task by primary key. Returns domain.ErrNotFound if the
// task does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	q := postgres.FromCtx(ctx, r.q)

	sql, args, err := builder.Select(columns...).From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row taskRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "task", id)
	}

	t := toDomain(row)
	return &t, nil
}

// ListForUser returns every task the user created or is assigned to, newest
// first, one row per assignment.
func (r *Repo) ListForUser(ctx context.Context, userID string) ([]domain.UserTask, error) {
	q := postgres.FromCtx(ctx, r.q)

	sql, args, err := builder.
		Select("t.id AS task_id", "t.creator_id", "ta.assignee_id", "t.text",
			"t.due", "ta.done", "t.created_at", "ta.remarks").
		From("task_assignments ta").
		Join("tasks t ON t.id = ta.task_id").
		Where(squirrel.Or{
			squirrel.Eq{"ta.assignee_id": userID},
			squirrel.Eq{"t.creator_id": userID},
		}).
		OrderBy("t.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []userTaskRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list tasks for user %s: %w", userID, err)
	}

	out := make([]domain.UserTask, len(rows))
	for i, row := range rows {
		out[i] = domain.UserTask(row)
	}
	return out, nil
}

// MarkDone flips the task to done with the given completion time.
func (r *Repo) MarkDone(ctx context.Context, id uuid.UUID, at time.Time) error {
	q := postgres.FromCtx(ctx, r.q)

	sql, args, err := builder.Update(table).
		Set("done", true).
		Set("completed_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "task", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetNotice records the channel and timestamp of the creator's confirmation
// message so it can be rewritten later.
func (r *Repo) SetNotice(ctx context.Context, id uuid.UUID, channel, ts string) error {
	q := postgres.FromCtx(ctx, r.q)

	sql, args, err := builder.Update(table).
		Set("notice_channel", channel).
		Set("notice_ts", ts).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "task", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a task. Assignment rows cascade at the schema level.
// Returns domain.ErrNotFound if the task does not exist.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.FromCtx(ctx, r.q)

	sql, args, err := builder.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "task", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// userTaskRow mirrors the ListForUser join for scany.
type userTaskRow struct {
	TaskID     uuid.UUID  `db:"task_id"`
	CreatorID  string     `db:"creator_id"`
	AssigneeID string     `db:"assignee_id"`
	Text       string     `db:"text"`
	Due        *string    `db:"due"`
	Done       bool       `db:"done"`
	CreatedAt  time.Time  `db:"created_at"`
	Remarks    *string    `db:"remarks"`
}

func toDomain(row taskRow) domain.Task {
	return domain.Task{
		ID:            row.ID,
		CreatorID:     row.CreatorID,
		Text:          row.Text,
		CreatedAt:     row.CreatedAt,
		Due:           row.Due,
		FileURL:       row.FileURL,
		Done:          row.Done,
		CompletedAt:   row.CompletedAt,
		NoticeChannel: row.NoticeChannel,
		NoticeTS:      row.NoticeTS,
	}
}
