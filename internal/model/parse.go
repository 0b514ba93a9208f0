package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// Wire types mirror the persistence API payload. Every nested collection is
// optional: a transient bad payload degrades to an empty board section
// instead of failing the whole fetch. This is the only place in the module
// that tolerates malformed structure; everything past it assumes the
// invariants hold.

type boardWire struct {
	ID      string       `json:"id" validate:"required,uuid"`
	Title   string       `json:"title" validate:"required"`
	Columns []columnWire `json:"columns"`
}

type columnWire struct {
	ID       string     `json:"id"`
	BoardID  string     `json:"board_id"`
	Title    string     `json:"title"`
	Role     string     `json:"role"`
	Position int        `json:"position"`
	Tasks    []taskWire `json:"tasks"`
}

type taskWire struct {
	ID            string     `json:"id"`
	ColumnID      string     `json:"column_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	DueDate       *time.Time `json:"due_date"`
	Priority      string     `json:"priority"`
	Locked        bool       `json:"locked"`
	MovedToDoneAt *time.Time `json:"moved_to_done_at"`
	Position      int        `json:"position"`
}

// ParseBoard decodes a board payload into a well-formed snapshot: columns
// and tasks are sorted by their server positions and reindexed contiguously
// from zero, task back-references are wired, and column roles are filled in
// from the title when the server omits them. Columns or tasks without a
// usable id are dropped.
func ParseBoard(data []byte) (*Board, error) {
	var w boardWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	if err := validate.Struct(w); err != nil {
		return nil, fmt.Errorf("invalid board payload: %w", err)
	}

	board := &Board{
		ID:    uuid.MustParse(w.ID),
		Title: w.Title,
	}

	columns := make([]Column, 0, len(w.Columns))
	for _, cw := range w.Columns {
		id, err := uuid.Parse(cw.ID)
		if err != nil {
			continue
		}
		col := Column{
			ID:       id,
			BoardID:  board.ID,
			Title:    cw.Title,
			Role:     parseRole(cw.Role, cw.Title),
			Position: cw.Position,
			Tasks:    parseTasks(cw.Tasks, id),
		}
		columns = append(columns, col)
	}
	sort.SliceStable(columns, func(i, j int) bool { return columns[i].Position < columns[j].Position })
	for i := range columns {
		columns[i].Position = i
	}
	board.Columns = columns
	return board, nil
}

// ParseTask decodes a single task payload, as returned by task mutations.
func ParseTask(data []byte) (*Task, error) {
	var w taskWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	t, err := parseTask(w, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("invalid task payload: %w", err)
	}
	return &t, nil
}

func parseTasks(wires []taskWire, columnID uuid.UUID) []Task {
	tasks := make([]Task, 0, len(wires))
	for _, tw := range wires {
		t, err := parseTask(tw, columnID)
		if err != nil {
			continue
		}
		tasks = append(tasks, t)
	}
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Position < tasks[j].Position })
	for i := range tasks {
		tasks[i].Position = i
	}
	return tasks
}

func parseTask(w taskWire, columnID uuid.UUID) (Task, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return Task{}, fmt.Errorf("task id: %w", err)
	}
	if cid, err := uuid.Parse(w.ColumnID); err == nil {
		columnID = cid
	}
	priority := Priority(w.Priority)
	if priority != PriorityHigh {
		priority = PriorityNormal
	}
	return Task{
		ID:            id,
		ColumnID:      columnID,
		Title:         w.Title,
		Description:   w.Description,
		DueDate:       w.DueDate,
		Priority:      priority,
		Locked:        w.Locked,
		MovedToDoneAt: w.MovedToDoneAt,
		Position:      w.Position,
	}, nil
}

// parseRole prefers the explicit role sent by the server and falls back to
// the well-known column titles for stores that predate the role field.
func parseRole(role, title string) Role {
	switch Role(role) {
	case RoleTodo, RoleStandard, RoleTerminal:
		return Role(role)
	}
	switch strings.ToLower(strings.TrimSpace(title)) {
	case "to-do", "todo":
		return RoleTodo
	case "done":
		return RoleTerminal
	default:
		return RoleStandard
	}
}
