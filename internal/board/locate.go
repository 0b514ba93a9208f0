package board

import (
	"github.com/google/uuid"

	"boardsync/internal/model"
)

// FindTask returns the task with the given id and its containing column.
// The returned pointers alias the board's own storage.
func FindTask(b *model.Board, id uuid.UUID) (*model.Task, *model.Column, bool) {
	if b == nil {
		return nil, nil, false
	}
	for i := range b.Columns {
		col := &b.Columns[i]
		for j := range col.Tasks {
			if col.Tasks[j].ID == id {
				return &col.Tasks[j], col, true
			}
		}
	}
	return nil, nil, false
}

// FindColumn returns the column with the given id.
func FindColumn(b *model.Board, id uuid.UUID) (*model.Column, bool) {
	if b == nil {
		return nil, false
	}
	for i := range b.Columns {
		if b.Columns[i].ID == id {
			return &b.Columns[i], true
		}
	}
	return nil, false
}
