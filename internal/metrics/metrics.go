// Package metrics exposes the agent's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TaskMoves counts drag-end task moves by outcome: applied, merged,
	// rolled_back or stale.
	TaskMoves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardsync_task_moves_total",
		Help: "Task drag-end moves processed, by outcome.",
	}, []string{"outcome"})

	// ColumnMoves counts column reorders by outcome.
	ColumnMoves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardsync_column_moves_total",
		Help: "Column drag-end moves processed, by outcome.",
	}, []string{"outcome"})

	// Refetches counts full board reloads, labelled by what triggered them.
	Refetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardsync_board_refetches_total",
		Help: "Full board refetches, by trigger.",
	}, []string{"trigger"})

	// ArchiveSweeps counts sweep passes that found eligible tasks.
	ArchiveSweeps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boardsync_archive_sweeps_total",
		Help: "Archive sweep requests issued to the persistence API.",
	})
)

const (
	OutcomeApplied    = "applied"
	OutcomeMerged     = "merged"
	OutcomeRolledBack = "rolled_back"
	OutcomeStale      = "stale"

	TriggerRollback = "rollback"
	TriggerManual   = "manual"
)
