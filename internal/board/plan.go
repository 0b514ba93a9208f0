package board

import (
	"github.com/google/uuid"

	"boardsync/internal/model"
)

// TaskMove is a resolved drag of a task to a destination column and position.
type TaskMove struct {
	TaskID       uuid.UUID
	FromColumnID uuid.UUID
	ToColumnID   uuid.UUID
	Position     int
}

// ColumnMove is a resolved drag of a column to a destination index.
type ColumnMove struct {
	ColumnID uuid.UUID
	Position int
}

// PlanTaskMove resolves a drag-end gesture into a move. The drop target may
// be a column (append at its end) or another task (insert at that task's
// position, pushing it and everything after it down). A target that resolves
// to neither, a locked dragged task, or a destination identical to the
// task's current placement yields no move.
func PlanTaskMove(b *model.Board, draggedID, targetID uuid.UUID) (TaskMove, bool) {
	task, from, ok := FindTask(b, draggedID)
	if !ok || task.Locked {
		return TaskMove{}, false
	}

	var toID uuid.UUID
	var position int
	if col, ok := FindColumn(b, targetID); ok {
		toID = col.ID
		position = len(col.Tasks)
	} else if target, targetCol, ok := FindTask(b, targetID); ok {
		toID = targetCol.ID
		position = target.Position
	} else {
		return TaskMove{}, false
	}

	if toID == from.ID && position == task.Position {
		return TaskMove{}, false
	}
	return TaskMove{
		TaskID:       task.ID,
		FromColumnID: from.ID,
		ToColumnID:   toID,
		Position:     position,
	}, true
}

// PlanColumnMove resolves a column-header drag. The destination index is the
// dropped-on column's index in position order; dropping a column onto itself
// yields no move.
func PlanColumnMove(b *model.Board, draggedID, targetID uuid.UUID) (ColumnMove, bool) {
	if draggedID == targetID {
		return ColumnMove{}, false
	}
	if _, ok := FindColumn(b, draggedID); !ok {
		return ColumnMove{}, false
	}
	target, ok := FindColumn(b, targetID)
	if !ok {
		return ColumnMove{}, false
	}
	return ColumnMove{ColumnID: draggedID, Position: target.Position}, true
}
