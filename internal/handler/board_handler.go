package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boardsync/internal/controller"
)

type BoardHandler struct {
	ctrl *controller.Controller
}

func NewBoardHandler(ctrl *controller.Controller) *BoardHandler {
	return &BoardHandler{ctrl: ctrl}
}

// Get returns the current board snapshot.
func (h *BoardHandler) Get(c *gin.Context) {
	b := h.ctrl.Board()
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No board selected"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// Select loads a board from the persistence API and makes it current.
func (h *BoardHandler) Select(c *gin.Context) {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	if err := h.ctrl.SelectBoard(c.Request.Context(), boardID); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load board"})
		return
	}
	c.JSON(http.StatusOK, h.ctrl.Board())
}

// Refresh discards the snapshot in favor of the server's state. This is the
// shell's retry surface after a failed operation.
func (h *BoardHandler) Refresh(c *gin.Context) {
	if err := h.ctrl.Refetch(c.Request.Context()); err != nil {
		if err == controller.ErrNoBoard {
			c.JSON(http.StatusNotFound, gin.H{"error": "No board selected"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to refresh board"})
		return
	}
	c.JSON(http.StatusOK, h.ctrl.Board())
}
