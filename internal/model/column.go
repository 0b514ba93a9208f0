package model

import (
	"github.com/google/uuid"
)

// Role attaches board rules to a column explicitly, so renaming a column in
// the UI cannot change its behavior.
type Role string

const (
	// RoleTodo is the only column that accepts newly created tasks
	RoleTodo Role = "todo"
	// RoleStandard columns carry no special rules
	RoleStandard Role = "standard"
	// RoleTerminal is the "Done" column; tasks inside it are locked
	RoleTerminal Role = "terminal"
)

type Column struct {
	ID       uuid.UUID `json:"id"`
	BoardID  uuid.UUID `json:"board_id"`
	Title    string    `json:"title"`
	Role     Role      `json:"role"`
	Position int       `json:"position"`
	Tasks    []Task    `json:"tasks"`
}

// Clone returns a deep copy of the column and its tasks.
func (c Column) Clone() Column {
	nc := c
	nc.Tasks = make([]Task, len(c.Tasks))
	for i, t := range c.Tasks {
		nc.Tasks[i] = t.Clone()
	}
	return nc
}
