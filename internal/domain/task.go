package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is a unit of work created by one user and assigned to one or more users.
// Due is the raw deadline string as persisted (ISO-8601, naive or zoned);
// nil means the task has no deadline and is never picked up by the reminder
// scheduler. Task.Done flips to true only once every assignment is done.
// NoticeChannel/NoticeTS reference the creator's confirmation message; the
// message is rewritten in place when the task completes or is edited.
type Task struct {
	ID            uuid.UUID
	CreatorID     string
	Text          string
	CreatedAt     time.Time
	Due           *string
	FileURL       *string
	Done          bool
	CompletedAt   *time.Time
	NoticeChannel *string
	NoticeTS      *string
}

// Assignment is one assignee's copy of a task. A task with three assignees
// has three assignment rows; each is completed independently.
type Assignment struct {
	ID          uuid.UUID
	TaskID      uuid.UUID
	AssigneeID  string
	Done        bool
	CompletedAt *time.Time
	Remarks     *string
}

// PendingAssignment is the reminder scheduler's read-only view of one open
// assignment whose task carries a deadline. DueRaw is passed through
// unparsed; the scheduler decides how to interpret it and skips rows it
// cannot parse.
type PendingAssignment struct {
	TaskID     uuid.UUID
	AssigneeID string
	TaskText   string
	DueRaw     string
}

// UserTask is a task joined with one of its assignments, as listed for a
// single user (either as creator or as assignee).
type UserTask struct {
	TaskID     uuid.UUID
	CreatorID  string
	AssigneeID string
	Text       string
	Due        *string
	Done       bool
	CreatedAt  time.Time
	Remarks    *string
}
