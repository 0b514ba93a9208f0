package board

import (
	"boardsync/internal/model"
)

// LockTransition describes how a move between columns affects the dragged
// task's locked state.
type LockTransition int

const (
	// TransitionNone leaves the locked state untouched
	TransitionNone LockTransition = iota
	// TransitionLock fires when a task enters the terminal column
	TransitionLock
	// TransitionUnlock fires when a task leaves the terminal column
	TransitionUnlock
)

func lockTransition(from, to *model.Column) LockTransition {
	switch {
	case from.Role != model.RoleTerminal && to.Role == model.RoleTerminal:
		return TransitionLock
	case from.Role == model.RoleTerminal && to.Role != model.RoleTerminal:
		return TransitionUnlock
	default:
		return TransitionNone
	}
}
