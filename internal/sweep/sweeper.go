package sweep

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"boardsync/internal/metrics"
	"boardsync/internal/model"
)

// BoardSource exposes the live snapshot and a way to resynchronize it.
type BoardSource interface {
	Board() *model.Board
	Refetch(ctx context.Context) error
}

// Archiver is the persistence API operation that archives every task whose
// lock duration exceeds the threshold. It is idempotent.
type Archiver interface {
	ArchiveSweep(ctx context.Context) error
}

// Sweeper periodically archives tasks that have been sitting in the
// terminal column longer than the threshold. It runs one pass immediately
// on start and then on a fixed interval until the context is canceled.
type Sweeper struct {
	src       BoardSource
	api       Archiver
	interval  time.Duration
	threshold time.Duration
	log       *log.Entry

	now func() time.Time
}

func New(src BoardSource, api Archiver, interval, threshold time.Duration, logger *log.Logger) *Sweeper {
	return &Sweeper{
		src:       src,
		api:       api,
		interval:  interval,
		threshold: threshold,
		log:       logger.WithField("component", "sweep"),
		now:       time.Now,
	}
}

// Run blocks until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs a single pass. A pass with no eligible tasks is a no-op
// and issues no network call, so repeated invocation is harmless.
func (s *Sweeper) Sweep(ctx context.Context) {
	b := s.src.Board()
	if b == nil || !hasEligible(b, s.now().Add(-s.threshold)) {
		return
	}

	if err := s.api.ArchiveSweep(ctx); err != nil {
		s.log.WithError(err).Warn("archive sweep failed")
		return
	}
	metrics.ArchiveSweeps.Inc()
	s.log.Debug("archive sweep completed")

	if err := s.src.Refetch(ctx); err != nil {
		s.log.WithError(err).Warn("refetch after sweep failed")
	}
}

// hasEligible reports whether any locked task completed strictly earlier
// than the cutoff.
func hasEligible(b *model.Board, cutoff time.Time) bool {
	for i := range b.Columns {
		for _, t := range b.Columns[i].Tasks {
			if t.Locked && t.MovedToDoneAt != nil && t.MovedToDoneAt.Before(cutoff) {
				return true
			}
		}
	}
	return false
}
