package board_test

import (
	"time"

	"github.com/google/uuid"

	"boardsync/internal/model"
)

var (
	boardID  = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	colTodo  = uuid.MustParse("00000000-0000-0000-0000-000000000010")
	colDoing = uuid.MustParse("00000000-0000-0000-0000-000000000020")
	colDone  = uuid.MustParse("00000000-0000-0000-0000-000000000030")
	taskA    = uuid.MustParse("00000000-0000-0000-0000-000000000011")
	taskB    = uuid.MustParse("00000000-0000-0000-0000-000000000012")
	taskC    = uuid.MustParse("00000000-0000-0000-0000-000000000021")
	taskD    = uuid.MustParse("00000000-0000-0000-0000-000000000031")

	doneAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

// newTestBoard builds a board with a to-do column holding tasks A and B, a
// standard column holding C, and a terminal column holding the locked D.
func newTestBoard() *model.Board {
	completed := doneAt
	return &model.Board{
		ID:    boardID,
		Title: "Sprint",
		Columns: []model.Column{
			{
				ID: colTodo, BoardID: boardID, Title: "To-Do", Role: model.RoleTodo, Position: 0,
				Tasks: []model.Task{
					{ID: taskA, ColumnID: colTodo, Title: "A", Priority: model.PriorityNormal, Position: 0},
					{ID: taskB, ColumnID: colTodo, Title: "B", Priority: model.PriorityHigh, Position: 1},
				},
			},
			{
				ID: colDoing, BoardID: boardID, Title: "In-Progress", Role: model.RoleStandard, Position: 1,
				Tasks: []model.Task{
					{ID: taskC, ColumnID: colDoing, Title: "C", Priority: model.PriorityNormal, Position: 0},
				},
			},
			{
				ID: colDone, BoardID: boardID, Title: "Done", Role: model.RoleTerminal, Position: 2,
				Tasks: []model.Task{
					{ID: taskD, ColumnID: colDone, Title: "D", Priority: model.PriorityNormal, Position: 0, Locked: true, MovedToDoneAt: &completed},
				},
			},
		},
	}
}
