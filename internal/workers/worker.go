// Package workers polls the task queue and runs registered handlers.
// Several worker goroutines share one claim loop each; claims go through
// the queue's SKIP LOCKED update so processes never step on each other.
package workers

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/goshopper/price-engine/internal/taskqueue"
)

type WorkerConfig struct {
	WorkerID   string // defaults to a random id
	TaskTypes  []string
	MaxTasks   int
	NumWorkers int
	PollDelay  time.Duration
}

type Worker struct {
	queue    *taskqueue.TaskQueue
	config   WorkerConfig
	handlers map[string]func(context.Context, []byte) error
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func New(queue *taskqueue.TaskQueue, config WorkerConfig) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = "worker-" + uuid.New().String()[:8]
	}
	if config.NumWorkers <= 0 {
		config.NumWorkers = 1
	}
	if config.MaxTasks <= 0 {
		config.MaxTasks = 5
	}
	if config.PollDelay <= 0 {
		config.PollDelay = 5 * time.Second
	}
	return &Worker{
		queue:    queue,
		config:   config,
		handlers: make(map[string]func(context.Context, []byte) error),
		stopChan: make(chan struct{}),
	}
}

// RegisterHandler installs the handler and adds the task type to the
// claim filter. Call before Start.
func (w *Worker) RegisterHandler(taskType taskqueue.TaskType, handler func(context.Context, []byte) error) {
	key := string(taskType)
	if !slices.Contains(w.config.TaskTypes, key) {
		w.config.TaskTypes = append(w.config.TaskTypes, key)
	}
	w.handlers[key] = handler
}

func (w *Worker) Start(ctx context.Context) {
	log.Info().
		Str("component", "worker").
		Str("worker_id", w.config.WorkerID).
		Strs("task_types", w.config.TaskTypes).
		Int("workers", w.config.NumWorkers).
		Msg("Starting workers")

	for i := 0; i < w.config.NumWorkers; i++ {
		go w.workerLoop(ctx, i)
	}
}

func (w *Worker) Stop() {
	close(w.stopChan)
	log.Info().
		Str("component", "worker").
		Str("worker_id", w.config.WorkerID).
		Msg("Worker stopping, waiting for in-flight tasks")
	w.wg.Wait()
	log.Info().
		Str("component", "worker").
		Str("worker_id", w.config.WorkerID).
		Msg("Worker stopped")
}

func (w *Worker) workerLoop(ctx context.Context, workerNum int) {
	workerID := fmt.Sprintf("%s-%d", w.config.WorkerID, workerNum)

	ticker := time.NewTicker(w.config.PollDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.processTasks(ctx, workerID)
		}
	}
}

func (w *Worker) processTasks(ctx context.Context, workerID string) {
	tasks, err := w.queue.Claim(ctx, workerID, w.config.TaskTypes, w.config.MaxTasks)
	if err != nil {
		log.Error().Err(err).Msg("Failed to claim tasks")
		return
	}
	if len(tasks) == 0 {
		return
	}

	log.Info().
		Str("component", "worker").
		Str("worker_id", workerID).
		Int("task_count", len(tasks)).
		Msg("Worker claimed tasks")

	for _, task := range tasks {
		w.processTask(ctx, workerID, task)
	}
}

func (w *Worker) processTask(ctx context.Context, workerID string, task taskqueue.ClaimedTask) {
	w.wg.Add(1)
	defer w.wg.Done()

	handler, exists := w.handlers[task.TaskType]
	if !exists {
		log.Warn().
			Str("task_type", task.TaskType).
			Str("task_id", task.ID).
			Msg("No handler for task type")
		if err := w.queue.Fail(ctx, task.ID, "no handler registered", false); err != nil {
			log.Error().Err(err).Str("task_id", task.ID).Msg("Failed to mark task failed")
		}
		return
	}

	start := time.Now()
	if err := handler(ctx, task.Payload); err != nil {
		log.Error().Err(err).
			Str("worker_id", workerID).
			Str("task_id", task.ID).
			Str("task_type", task.TaskType).
			Msg("Task handler failed")
		if failErr := w.queue.Fail(ctx, task.ID, err.Error(), true); failErr != nil {
			log.Error().Err(failErr).Str("task_id", task.ID).Msg("Failed to mark task failed")
		}
		return
	}

	if err := w.queue.Complete(ctx, task.ID); err != nil {
		log.Error().Err(err).Str("task_id", task.ID).Msg("Failed to mark task completed")
		return
	}

	log.Info().
		Str("worker_id", workerID).
		Str("task_id", task.ID).
		Str("task_type", task.TaskType).
		Dur("duration", time.Since(start)).
		Msg("Task completed")
}
