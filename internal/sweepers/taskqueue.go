// Package sweepers runs periodic queue maintenance alongside the
// workers.
package sweepers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/goshopper/price-engine/internal/taskqueue"
)

// staleAfter is how long a claimed task may sit without progress before
// the sweeper hands it back to the pool.
const staleAfter = 10 * time.Minute

// taskRetention is how long terminal tasks are kept for inspection.
const taskRetention = 7 * 24 * time.Hour

// TaskQueueSweeper periodically recovers tasks orphaned by dead workers
// and prunes old terminal tasks.
type TaskQueueSweeper struct {
	queue    *taskqueue.TaskQueue
	logger   *zerolog.Logger
	interval time.Duration
	stopChan chan struct{}
}

// NewTaskQueueSweeper creates a new sweeper for task queue maintenance.
func NewTaskQueueSweeper(queue *taskqueue.TaskQueue, logger *zerolog.Logger, interval time.Duration) *TaskQueueSweeper {
	return &TaskQueueSweeper{
		queue:    queue,
		logger:   logger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic recovery sweep.
func (s *TaskQueueSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Msg("Starting task queue sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Task queue sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Task queue sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop signals the sweeper to stop.
func (s *TaskQueueSweeper) Stop() {
	close(s.stopChan)
}

func (s *TaskQueueSweeper) sweep(ctx context.Context) {
	recovered, err := s.queue.RecoverStale(ctx, staleAfter)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to recover stale tasks")
	} else if recovered > 0 {
		s.logger.Info().Int("recovered", recovered).Msg("Recovered stale tasks")
	}

	removed, err := s.queue.CleanupOld(ctx, taskRetention)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to cleanup old tasks")
	} else if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("Cleaned up old tasks")
	}
}
