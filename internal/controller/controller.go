package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"boardsync/internal/board"
	"boardsync/internal/cache"
	"boardsync/internal/events"
	"boardsync/internal/metrics"
	"boardsync/internal/model"
)

var (
	ErrNoBoard        = errors.New("no board selected")
	ErrTaskNotFound   = errors.New("task not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrTaskLocked     = errors.New("task is locked")
	ErrNotTodoColumn  = errors.New("tasks can only be created in the to-do column")
)

// Persistence is the remote collaborator the controller reconciles against.
type Persistence interface {
	GetBoard(ctx context.Context, id uuid.UUID) (*model.Board, error)
	MoveTask(ctx context.Context, id, columnID uuid.UUID, position int) (*model.Task, error)
	MoveColumn(ctx context.Context, id uuid.UUID, position int) (*model.Column, error)
	CreateTask(ctx context.Context, task *model.Task) (*model.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, edit model.TaskEdit) (*model.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	ArchiveTask(ctx context.Context, id uuid.UUID) error
}

// Controller owns the live board snapshot. Every user action is applied to
// the snapshot optimistically before the persistence call is issued, then
// reconciled with the server response: confirmed fields are merged in on
// success, the whole board is refetched on failure. The snapshot is only
// ever replaced wholesale, never partially written.
type Controller struct {
	api  Persistence
	bus  *events.Bus
	last *cache.LastBoard
	log  *log.Entry

	mu     sync.Mutex
	userID string
	board  *model.Board
	// seq fences reconciliation per entity: a server response is merged
	// only if its sequence is still the latest issued for that entity.
	seq map[uuid.UUID]uint64

	refetch singleflight.Group

	completed func(model.Task)
}

func New(api Persistence, bus *events.Bus, last *cache.LastBoard, userID string, logger *log.Logger) *Controller {
	return &Controller{
		api:    api,
		bus:    bus,
		last:   last,
		log:    logger.WithField("component", "controller"),
		userID: userID,
		seq:    make(map[uuid.UUID]uint64),
	}
}

// OnTaskCompleted registers the hook fired once per confirmed transition of
// a task into the terminal column.
func (c *Controller) OnTaskCompleted(fn func(model.Task)) {
	c.completed = fn
}

// Board returns a copy of the current snapshot, or nil before the first
// successful load.
func (c *Controller) Board() *model.Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Clone()
}

// SelectBoard loads the given board from the persistence API, makes it the
// live snapshot and remembers the choice for the next session.
func (c *Controller) SelectBoard(ctx context.Context, id uuid.UUID) error {
	fresh, err := c.api.GetBoard(ctx, id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.board = fresh
	c.seq = make(map[uuid.UUID]uint64)
	c.mu.Unlock()

	c.last.Set(ctx, c.userID, id)
	c.bus.Publish(events.Event{Kind: events.KindBoth})
	return nil
}

// Refetch replaces the snapshot with the server's authoritative state.
// Concurrent calls are collapsed into a single request.
func (c *Controller) Refetch(ctx context.Context) error {
	c.mu.Lock()
	if c.board == nil {
		c.mu.Unlock()
		return ErrNoBoard
	}
	boardID := c.board.ID
	c.mu.Unlock()

	fresh, err := c.fetchBoard(ctx, boardID)
	if err != nil {
		return err
	}
	metrics.Refetches.WithLabelValues(metrics.TriggerManual).Inc()

	c.mu.Lock()
	c.board = fresh
	c.mu.Unlock()
	c.bus.Publish(events.Event{Kind: events.KindBoth})
	return nil
}

// DragEndTask handles a task drag-end gesture. Resolution failures and
// no-op drops are silently ignored; persistence failures roll the snapshot
// back to server state. Errors never escape this boundary.
func (c *Controller) DragEndTask(ctx context.Context, draggedID, targetID uuid.UUID) {
	c.mu.Lock()
	mv, ok := board.PlanTaskMove(c.board, draggedID, targetID)
	if !ok {
		c.mu.Unlock()
		return
	}
	next, transition := board.ApplyTaskMove(c.board, mv, time.Now())
	c.board = next
	c.seq[mv.TaskID]++
	seq := c.seq[mv.TaskID]
	applied, _, _ := board.FindTask(next, mv.TaskID)
	columnID, position := applied.ColumnID, applied.Position
	c.mu.Unlock()

	metrics.TaskMoves.WithLabelValues(metrics.OutcomeApplied).Inc()
	c.bus.Publish(events.Event{Kind: events.KindTasks})

	c.reconcileTask(ctx, mv.TaskID, columnID, position, seq, transition)
}

// DragEndColumn handles a column-header drag-end gesture.
func (c *Controller) DragEndColumn(ctx context.Context, draggedID, targetID uuid.UUID) {
	c.mu.Lock()
	mv, ok := board.PlanColumnMove(c.board, draggedID, targetID)
	if !ok {
		c.mu.Unlock()
		return
	}
	c.board = board.ApplyColumnMove(c.board, mv)
	c.seq[mv.ColumnID]++
	seq := c.seq[mv.ColumnID]
	applied, _ := board.FindColumn(c.board, mv.ColumnID)
	position := applied.Position
	c.mu.Unlock()

	metrics.ColumnMoves.WithLabelValues(metrics.OutcomeApplied).Inc()
	c.bus.Publish(events.Event{Kind: events.KindTasks})

	c.reconcileColumn(ctx, mv.ColumnID, position, seq)
}

// AddTask creates a task at the end of the given column, which must be the
// to-do column. The task appears in the snapshot immediately under a
// provisional id and is rewired to the server-assigned identity on success.
func (c *Controller) AddTask(ctx context.Context, columnID uuid.UUID, draft model.Task) error {
	c.mu.Lock()
	if c.board == nil {
		c.mu.Unlock()
		return ErrNoBoard
	}
	col, ok := board.FindColumn(c.board, columnID)
	if !ok {
		c.mu.Unlock()
		return ErrColumnNotFound
	}
	if col.Role != model.RoleTodo {
		c.mu.Unlock()
		return ErrNotTodoColumn
	}

	draft.ID = uuid.New()
	if draft.Priority != model.PriorityHigh {
		draft.Priority = model.PriorityNormal
	}
	draft.Locked = false
	draft.MovedToDoneAt = nil
	c.board = board.AddTask(c.board, columnID, draft)
	c.seq[draft.ID]++
	seq := c.seq[draft.ID]
	optimistic, _, _ := board.FindTask(c.board, draft.ID)
	outbound := *optimistic
	c.mu.Unlock()

	c.bus.Publish(events.Event{Kind: events.KindTasks})

	created, err := c.api.CreateTask(ctx, &outbound)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		c.log.WithError(err).Warn("task create rejected, rolling back")
		c.rollback(ctx, draft.ID, seq)
		return nil
	}

	c.mu.Lock()
	if c.seq[draft.ID] == seq {
		if t, _, ok := board.FindTask(c.board, draft.ID); ok {
			t.ID = created.ID
			t.Locked = created.Locked
			t.MovedToDoneAt = created.MovedToDoneAt
		}
	}
	c.mu.Unlock()
	return nil
}

// EditTask updates the editable fields of an unlocked task.
func (c *Controller) EditTask(ctx context.Context, id uuid.UUID, edit model.TaskEdit) error {
	c.mu.Lock()
	if c.board == nil {
		c.mu.Unlock()
		return ErrNoBoard
	}
	current, _, ok := board.FindTask(c.board, id)
	if !ok {
		c.mu.Unlock()
		return ErrTaskNotFound
	}
	if current.Locked {
		c.mu.Unlock()
		return ErrTaskLocked
	}

	next := c.board.Clone()
	t, _, _ := board.FindTask(next, id)
	applyEdit(t, edit)
	c.board = next
	c.seq[id]++
	seq := c.seq[id]
	c.mu.Unlock()

	c.bus.Publish(events.Event{Kind: events.KindTasks})

	updated, err := c.api.UpdateTask(ctx, id, edit)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		c.log.WithError(err).Warn("task edit rejected, rolling back")
		c.rollback(ctx, id, seq)
		return nil
	}

	c.mu.Lock()
	if c.seq[id] == seq {
		c.mergeTaskLocked(updated)
	}
	c.mu.Unlock()
	return nil
}

// DeleteTask removes a task. Locked tasks may be deleted; this is an
// explicit action, not a drag.
func (c *Controller) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.removeTask(ctx, id, c.api.DeleteTask, events.KindTasks)
}

// ArchiveTask moves a task to the archive. Other open views are told to
// refresh both their board and archive lists.
func (c *Controller) ArchiveTask(ctx context.Context, id uuid.UUID) error {
	return c.removeTask(ctx, id, c.api.ArchiveTask, events.KindBoth)
}

func (c *Controller) removeTask(ctx context.Context, id uuid.UUID, call func(context.Context, uuid.UUID) error, kind events.Kind) error {
	c.mu.Lock()
	if c.board == nil {
		c.mu.Unlock()
		return ErrNoBoard
	}
	if _, _, ok := board.FindTask(c.board, id); !ok {
		c.mu.Unlock()
		return ErrTaskNotFound
	}
	c.board = board.RemoveTask(c.board, id)
	c.seq[id]++
	seq := c.seq[id]
	c.mu.Unlock()

	c.bus.Publish(events.Event{Kind: events.KindTasks})

	if err := call(ctx, id); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		c.log.WithError(err).Warn("task removal rejected, rolling back")
		c.rollback(ctx, id, seq)
		return nil
	}
	if kind != events.KindTasks {
		c.bus.Publish(events.Event{Kind: kind})
	}
	return nil
}

func (c *Controller) reconcileTask(ctx context.Context, id, columnID uuid.UUID, position int, seq uint64, transition board.LockTransition) {
	updated, err := c.api.MoveTask(ctx, id, columnID, position)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.log.WithError(err).Warn("task move rejected, rolling back")
		metrics.TaskMoves.WithLabelValues(metrics.OutcomeRolledBack).Inc()
		c.rollback(ctx, id, seq)
		return
	}

	c.mu.Lock()
	if c.seq[id] != seq {
		c.mu.Unlock()
		metrics.TaskMoves.WithLabelValues(metrics.OutcomeStale).Inc()
		return
	}
	merged := c.mergeTaskLocked(updated)
	c.mu.Unlock()
	metrics.TaskMoves.WithLabelValues(metrics.OutcomeMerged).Inc()

	// The completion alert fires only after the server has confirmed the
	// transition into the terminal column.
	if transition == board.TransitionLock && merged != nil && merged.Locked && c.completed != nil {
		c.completed(*merged)
	}
}

func (c *Controller) reconcileColumn(ctx context.Context, id uuid.UUID, position int, seq uint64) {
	updated, err := c.api.MoveColumn(ctx, id, position)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.log.WithError(err).Warn("column move rejected, rolling back")
		metrics.ColumnMoves.WithLabelValues(metrics.OutcomeRolledBack).Inc()
		c.rollback(ctx, id, seq)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq[id] != seq {
		metrics.ColumnMoves.WithLabelValues(metrics.OutcomeStale).Inc()
		return
	}
	if col, ok := board.FindColumn(c.board, id); ok && updated != nil && updated.Position != col.Position {
		c.board = board.ApplyColumnMove(c.board, board.ColumnMove{ColumnID: id, Position: updated.Position})
	}
	metrics.ColumnMoves.WithLabelValues(metrics.OutcomeMerged).Inc()
}

// mergeTaskLocked folds a server-confirmed task into the snapshot,
// preferring the server's locked state, placement and completion timestamp
// while keeping local relation wiring the payload does not carry. Placement
// disagreements are resolved by re-applying the server's placement as a
// move so position contiguity survives. Caller holds c.mu.
func (c *Controller) mergeTaskLocked(srv *model.Task) *model.Task {
	if srv == nil {
		return nil
	}
	t, col, ok := board.FindTask(c.board, srv.ID)
	if !ok {
		return nil
	}

	srvColumn := srv.ColumnID
	if srvColumn == uuid.Nil {
		srvColumn = col.ID
	}
	if srvColumn != col.ID || srv.Position != t.Position {
		c.board, _ = board.ApplyTaskMove(c.board, board.TaskMove{
			TaskID:       srv.ID,
			FromColumnID: col.ID,
			ToColumnID:   srvColumn,
			Position:     srv.Position,
		}, time.Now())
		t, _, ok = board.FindTask(c.board, srv.ID)
		if !ok {
			return nil
		}
	}

	t.Locked = srv.Locked
	if srv.MovedToDoneAt != nil {
		moved := *srv.MovedToDoneAt
		t.MovedToDoneAt = &moved
	} else {
		t.MovedToDoneAt = nil
	}

	merged := t.Clone()
	return &merged
}

// rollback discards optimistic state by refetching the whole board. This is
// the only path that triggers a full reload. The entity's sequence fences
// the swap: if a newer optimistic change claimed the entity while the
// refetch was in flight, the stale result is dropped.
func (c *Controller) rollback(ctx context.Context, entityID uuid.UUID, seq uint64) {
	c.mu.Lock()
	if c.board == nil || c.seq[entityID] != seq {
		c.mu.Unlock()
		return
	}
	boardID := c.board.ID
	c.mu.Unlock()

	fresh, err := c.fetchBoard(ctx, boardID)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.log.WithError(err).Error("rollback refetch failed")
		}
		return
	}
	metrics.Refetches.WithLabelValues(metrics.TriggerRollback).Inc()

	c.mu.Lock()
	if c.seq[entityID] == seq {
		c.board = fresh
	}
	c.mu.Unlock()
	c.bus.Publish(events.Event{Kind: events.KindBoth})
}

func (c *Controller) fetchBoard(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	v, err, _ := c.refetch.Do(id.String(), func() (any, error) {
		return c.api.GetBoard(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Board), nil
}

func applyEdit(t *model.Task, edit model.TaskEdit) {
	if edit.Title != nil {
		t.Title = *edit.Title
	}
	if edit.Description != nil {
		t.Description = *edit.Description
	}
	if edit.DueDate != nil {
		due := *edit.DueDate
		t.DueDate = &due
	}
	if edit.Priority != nil {
		t.Priority = *edit.Priority
	}
}
