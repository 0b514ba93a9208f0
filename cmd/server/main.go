package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"boardsync/internal/cache"
	"boardsync/internal/client"
	"boardsync/internal/config"
	"boardsync/internal/controller"
	"boardsync/internal/events"
	"boardsync/internal/model"
	"boardsync/internal/server"
	"boardsync/internal/sweep"
)

func main() {
	cfg := config.Load()
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	logger := log.StandardLogger()

	var rc *redis.Client
	if cfg.RedisAddr != "" {
		rc = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	lastBoard := cache.NewLastBoard(rc, 0)

	api := client.New(cfg.APIBaseURL, cfg.APIToken, logger)
	bus := events.NewBus()
	ctrl := controller.New(api, bus, lastBoard, cfg.UserID, logger)
	ctrl.OnTaskCompleted(func(t model.Task) {
		log.WithField("task", t.Title).Info("task completed")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if id, ok := startupBoard(ctx, cfg, lastBoard); ok {
		if err := ctrl.SelectBoard(ctx, id); err != nil {
			log.Fatalf("initial board load failed: %v", err)
		}
	} else {
		log.Info("no board selected yet, waiting for the shell")
	}

	sweeper := sweep.New(ctrl, api, cfg.SweepInterval, cfg.SweepThreshold, logger)
	go sweeper.Run(ctx)

	s := server.Init(cfg, ctrl, bus, logger)
	s.Run()
}

// startupBoard picks the board to open: an explicit BOARD_ID wins, then the
// last board this user had selected.
func startupBoard(ctx context.Context, cfg *config.Config, last *cache.LastBoard) (uuid.UUID, bool) {
	if cfg.BoardID != "" {
		id, err := uuid.Parse(cfg.BoardID)
		if err != nil {
			log.Fatalf("invalid BOARD_ID: %v", err)
		}
		return id, true
	}
	return last.Get(ctx, cfg.UserID)
}
