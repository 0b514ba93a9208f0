package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boardsync/internal/controller"
	"boardsync/internal/model"
)

type TaskHandler struct {
	ctrl *controller.Controller
}

func NewTaskHandler(ctrl *controller.Controller) *TaskHandler {
	return &TaskHandler{ctrl: ctrl}
}

// DragEndRequest carries a finished drag gesture from the shell.
type DragEndRequest struct {
	DraggedID string `json:"dragged_id" binding:"required,uuid"`
	TargetID  string `json:"target_id" binding:"required,uuid"`
	Kind      string `json:"kind" binding:"omitempty,oneof=task column"`
}

// CreateTaskRequest carries a new task for the to-do column.
type CreateTaskRequest struct {
	ColumnID    string     `json:"column_id" binding:"required,uuid"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=normal high"`
}

// UpdateTaskRequest carries edits; absent fields are unchanged.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=normal high"`
}

// DragEnd applies a drag gesture optimistically and reconciles it with the
// persistence API. It always answers with the snapshot as the shell should
// now render it; a miss or no-op simply returns the unchanged snapshot.
func (h *TaskHandler) DragEnd(c *gin.Context) {
	var req DragEndRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	draggedID := uuid.MustParse(req.DraggedID)
	targetID := uuid.MustParse(req.TargetID)
	if req.Kind == "column" {
		h.ctrl.DragEndColumn(c.Request.Context(), draggedID, targetID)
	} else {
		h.ctrl.DragEndTask(c.Request.Context(), draggedID, targetID)
	}

	c.JSON(http.StatusOK, h.ctrl.Board())
}

// Create adds a task to the to-do column.
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	draft := model.Task{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    model.Priority(req.Priority),
	}
	err := h.ctrl.AddTask(c.Request.Context(), uuid.MustParse(req.ColumnID), draft)
	switch {
	case errors.Is(err, controller.ErrNoBoard), errors.Is(err, controller.ErrColumnNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
	case errors.Is(err, controller.ErrNotTodoColumn):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Tasks can only be created in the to-do column"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
	default:
		c.JSON(http.StatusCreated, h.ctrl.Board())
	}
}

// Update edits an unlocked task.
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	edit := model.TaskEdit{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		edit.Priority = &p
	}

	switch err := h.ctrl.EditTask(c.Request.Context(), taskID, edit); {
	case errors.Is(err, controller.ErrNoBoard), errors.Is(err, controller.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, controller.ErrTaskLocked):
		c.JSON(http.StatusConflict, gin.H{"error": "Task is locked"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
	default:
		c.JSON(http.StatusOK, h.ctrl.Board())
	}
}

// Delete removes a task permanently.
func (h *TaskHandler) Delete(c *gin.Context) {
	h.remove(c, h.ctrl.DeleteTask, "Failed to delete task")
}

// Archive moves a task to the archive.
func (h *TaskHandler) Archive(c *gin.Context) {
	h.remove(c, h.ctrl.ArchiveTask, "Failed to archive task")
}

func (h *TaskHandler) remove(c *gin.Context, call func(ctx context.Context, id uuid.UUID) error, failMsg string) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	switch err := call(c.Request.Context(), taskID); {
	case errors.Is(err, controller.ErrNoBoard), errors.Is(err, controller.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
	default:
		c.JSON(http.StatusOK, h.ctrl.Board())
	}
}
