package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is a staff follow-up, optionally linked to an inquiry.
// It transitions pending -> completed|cancelled exactly once.
type Task struct {
	ID          uuid.UUID
	InquiryID   *uuid.UUID
	Title       string
	Description *string
	DueDate     *time.Time
	AssignedTo  *uuid.UUID
	Status      TaskStatus
	Priority    Priority
	CreatedBy   uuid.UUID
	CompletedAt *time.Time
	CompletedBy *uuid.UUID
	CreatedAt   time.Time
}

// IsOverdue reports whether a pending task is past its due date.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status == TaskStatusPending && t.DueDate != nil && t.DueDate.Before(now)
}

// SystemActorID is recorded as creator of tasks raised by the public site.
var SystemActorID = uuid.Nil
