package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"boardsync/internal/events"
)

// WSHandler streams refresh events to connected shell views so every open
// view learns about board changes, not just the one that caused them.
type WSHandler struct {
	bus      *events.Bus
	upgrader websocket.Upgrader
	log      *log.Entry
}

func NewWSHandler(bus *events.Bus, logger *log.Logger) *WSHandler {
	return &WSHandler{
		bus: bus,
		upgrader: websocket.Upgrader{
			// The façade only serves the local shell.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: logger.WithField("component", "ws"),
	}
}

// Stream upgrades the connection and forwards bus events until the client
// disconnects.
func (h *WSHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Debug("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ch, cancel := h.bus.Subscribe()
	defer cancel()

	// Drain reads so client-initiated close frames are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
