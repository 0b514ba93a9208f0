package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"boardsync/internal/config"
	"boardsync/internal/controller"
	"boardsync/internal/events"
	"boardsync/internal/handler"
)

// Server is the local façade the UI shell talks to. It exposes the board
// snapshot, the drag-and-drop and task operations, a websocket refresh feed
// and Prometheus metrics.
type Server struct {
	Engine *gin.Engine
	Config *config.Config
}

func Init(cfg *config.Config, ctrl *controller.Controller, bus *events.Bus, logger *log.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	boardHandler := handler.NewBoardHandler(ctrl)
	taskHandler := handler.NewTaskHandler(ctrl)
	wsHandler := handler.NewWSHandler(bus, logger)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/board", boardHandler.Get)
	r.POST("/board/refresh", boardHandler.Refresh)
	r.POST("/boards/:id/select", boardHandler.Select)

	r.POST("/dragend", taskHandler.DragEnd)
	r.POST("/tasks", taskHandler.Create)
	r.PUT("/tasks/:id", taskHandler.Update)
	r.DELETE("/tasks/:id", taskHandler.Delete)
	r.POST("/tasks/:id/archive", taskHandler.Archive)

	r.GET("/ws", wsHandler.Stream)

	return &Server{Engine: r, Config: cfg}
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Infof("facade listening on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced to shutdown: %s", err)
	}

	log.Info("server exited properly")
}
