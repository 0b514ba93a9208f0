package board

import (
	"time"

	"github.com/google/uuid"

	"boardsync/internal/model"
)

// ApplyTaskMove rewrites the snapshot for a resolved move: the task is
// removed from its source column, the lock policy is applied, and the task
// is inserted into the destination column. Both affected columns are
// reindexed to contiguous zero-based positions. The input board is not
// modified; the returned board is a fresh value suitable for a single
// whole-value swap.
//
// A move whose task or destination column cannot be found returns the board
// unchanged (still cloned) with no transition.
func ApplyTaskMove(b *model.Board, mv TaskMove, now time.Time) (*model.Board, LockTransition) {
	nb := b.Clone()

	_, from, ok := FindTask(nb, mv.TaskID)
	if !ok {
		return nb, TransitionNone
	}
	to, ok := FindColumn(nb, mv.ToColumnID)
	if !ok {
		return nb, TransitionNone
	}

	idx := -1
	for i := range from.Tasks {
		if from.Tasks[i].ID == mv.TaskID {
			idx = i
			break
		}
	}
	moved := from.Tasks[idx]
	from.Tasks = append(from.Tasks[:idx], from.Tasks[idx+1:]...)
	reindexTasks(from)

	transition := TransitionNone
	if from.ID != to.ID {
		transition = lockTransition(from, to)
	}
	switch transition {
	case TransitionLock:
		moved.Locked = true
		doneAt := now
		moved.MovedToDoneAt = &doneAt
	case TransitionUnlock:
		moved.Locked = false
		moved.MovedToDoneAt = nil
	}
	moved.ColumnID = to.ID

	pos := mv.Position
	if pos > len(to.Tasks) {
		pos = len(to.Tasks)
	}
	to.Tasks = append(to.Tasks[:pos], append([]model.Task{moved}, to.Tasks[pos:]...)...)
	reindexTasks(to)

	return nb, transition
}

// ApplyColumnMove reorders the board's columns and reindexes their
// positions. Unknown columns leave the board unchanged.
func ApplyColumnMove(b *model.Board, mv ColumnMove) *model.Board {
	nb := b.Clone()

	idx := -1
	for i := range nb.Columns {
		if nb.Columns[i].ID == mv.ColumnID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nb
	}

	moved := nb.Columns[idx]
	nb.Columns = append(nb.Columns[:idx], nb.Columns[idx+1:]...)
	pos := mv.Position
	if pos > len(nb.Columns) {
		pos = len(nb.Columns)
	}
	nb.Columns = append(nb.Columns[:pos], append([]model.Column{moved}, nb.Columns[pos:]...)...)
	for i := range nb.Columns {
		nb.Columns[i].Position = i
	}
	return nb
}

// AddTask appends a task to the end of the given column.
func AddTask(b *model.Board, columnID uuid.UUID, task model.Task) *model.Board {
	nb := b.Clone()
	col, ok := FindColumn(nb, columnID)
	if !ok {
		return nb
	}
	task.ColumnID = col.ID
	task.Position = len(col.Tasks)
	col.Tasks = append(col.Tasks, task)
	return nb
}

// RemoveTask deletes a task from the board and reindexes its column.
func RemoveTask(b *model.Board, taskID uuid.UUID) *model.Board {
	nb := b.Clone()
	_, col, ok := FindTask(nb, taskID)
	if !ok {
		return nb
	}
	for i := range col.Tasks {
		if col.Tasks[i].ID == taskID {
			col.Tasks = append(col.Tasks[:i], col.Tasks[i+1:]...)
			break
		}
	}
	reindexTasks(col)
	return nb
}

func reindexTasks(c *model.Column) {
	for i := range c.Tasks {
		c.Tasks[i].Position = i
	}
}
