package model

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

type Task struct {
	ID            uuid.UUID  `json:"id"`
	ColumnID      uuid.UUID  `json:"column_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Priority      Priority   `json:"priority"`
	Locked        bool       `json:"locked"`
	MovedToDoneAt *time.Time `json:"moved_to_done_at,omitempty"`
	Position      int        `json:"position"`
}

// TaskEdit carries the editable fields of a task; nil fields are unchanged.
type TaskEdit struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
}

// Clone returns a copy of the task with its own timestamp pointers.
func (t Task) Clone() Task {
	nt := t
	if t.DueDate != nil {
		due := *t.DueDate
		nt.DueDate = &due
	}
	if t.MovedToDoneAt != nil {
		moved := *t.MovedToDoneAt
		nt.MovedToDoneAt = &moved
	}
	return nt
}
