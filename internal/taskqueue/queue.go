// Package taskqueue is a small postgres-backed work queue. Claims take
// rows with FOR UPDATE SKIP LOCKED so any number of workers can poll the
// same table without double-processing.
package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goshopper/price-engine/internal/pkg/cuid2"
)

type TaskQueue struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *TaskQueue {
	return &TaskQueue{pool: pool}
}

func (q *TaskQueue) GetPool() *pgxpool.Pool {
	return q.pool
}

// EnsureSchema creates the task_queue table when it does not exist yet.
func (q *TaskQueue) EnsureSchema(ctx context.Context) error {
	_, err := q.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS task_queue (
			id TEXT PRIMARY KEY,
			task_type TEXT NOT NULL,
			payload JSONB NOT NULL,
			priority INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			scheduled_for TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			started_at TIMESTAMPTZ,
			completed_at TIMESTAMPTZ,
			worker_id TEXT,
			retry_count INTEGER NOT NULL DEFAULT 0,
			max_retries INTEGER NOT NULL DEFAULT 3,
			error_message TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create task_queue table: %w", err)
	}

	_, err = q.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_task_queue_claim
		ON task_queue (status, scheduled_for, priority DESC)
	`)
	if err != nil {
		return fmt.Errorf("failed to create task_queue index: %w", err)
	}
	return nil
}

type EnqueueInput struct {
	TaskType    TaskType
	Payload     interface{}
	Priority    int
	ScheduledAt *time.Time
	MaxRetries  int
}

// Enqueue inserts a pending task and returns its id.
func (q *TaskQueue) Enqueue(ctx context.Context, input EnqueueInput) (string, error) {
	payload, err := json.Marshal(input.Payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal task payload: %w", err)
	}

	maxRetries := 3
	if input.MaxRetries > 0 {
		maxRetries = input.MaxRetries
	}

	scheduledFor := time.Now()
	if input.ScheduledAt != nil {
		scheduledFor = *input.ScheduledAt
	}

	id := cuid2.GeneratePrefixedId("task", cuid2.PrefixedIdOptions{})
	_, err = q.pool.Exec(ctx, `
		INSERT INTO task_queue (id, task_type, payload, priority, scheduled_for, max_retries)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, string(input.TaskType), payload, input.Priority, scheduledFor, maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}
	return id, nil
}

// Claim atomically takes up to maxTasks due pending tasks of the given
// types for one worker.
func (q *TaskQueue) Claim(ctx context.Context, workerID string, taskTypes []string, maxTasks int) ([]ClaimedTask, error) {
	if maxTasks <= 0 {
		maxTasks = 1
	}

	rows, err := q.pool.Query(ctx, `
		UPDATE task_queue
		SET status = 'claimed', worker_id = $1, started_at = NOW(), updated_at = NOW()
		WHERE id IN (
			SELECT id FROM task_queue
			WHERE status = 'pending'
			  AND task_type = ANY($2)
			  AND scheduled_for <= NOW()
			ORDER BY priority DESC, scheduled_for
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, task_type, payload
	`, workerID, taskTypes, maxTasks)
	if err != nil {
		return nil, fmt.Errorf("failed to claim tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]ClaimedTask, 0)
	for rows.Next() {
		var task ClaimedTask
		if err := rows.Scan(&task.ID, &task.TaskType, &task.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan claimed task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Complete marks a claimed task as done.
func (q *TaskQueue) Complete(ctx context.Context, taskID string) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE task_queue
		SET status = 'completed', completed_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`, taskID)
	if err != nil {
		return fmt.Errorf("failed to complete task %s: %w", taskID, err)
	}
	return nil
}

// Fail records a task failure. With retry enabled the task goes back to
// pending until its retries are exhausted.
func (q *TaskQueue) Fail(ctx context.Context, taskID, errorMessage string, shouldRetry bool) error {
	var err error
	if shouldRetry {
		_, err = q.pool.Exec(ctx, `
			UPDATE task_queue
			SET status = CASE WHEN retry_count + 1 >= max_retries THEN 'failed' ELSE 'pending' END,
			    retry_count = retry_count + 1,
			    worker_id = NULL,
			    error_message = $2,
			    updated_at = NOW()
			WHERE id = $1
		`, taskID, errorMessage)
	} else {
		_, err = q.pool.Exec(ctx, `
			UPDATE task_queue
			SET status = 'failed', error_message = $2, updated_at = NOW()
			WHERE id = $1
		`, taskID, errorMessage)
	}
	if err != nil {
		return fmt.Errorf("failed to fail task %s: %w", taskID, err)
	}
	return nil
}

// Cancel stops a task that has not started processing yet.
func (q *TaskQueue) Cancel(ctx context.Context, taskID string) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE task_queue
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'claimed')
	`, taskID)
	return err
}

// RecoverStale returns tasks stuck in claimed or processing back to
// pending. Tasks whose retries are exhausted are failed instead. Returns
// the number of rows touched.
func (q *TaskQueue) RecoverStale(ctx context.Context, olderThan time.Duration) (int, error) {
	result, err := q.pool.Exec(ctx, `
		UPDATE task_queue
		SET status = CASE WHEN retry_count + 1 >= max_retries THEN 'failed' ELSE 'pending' END,
		    retry_count = retry_count + 1,
		    worker_id = NULL,
		    error_message = 'recovered: worker stopped responding',
		    updated_at = NOW()
		WHERE status IN ('claimed', 'processing')
		  AND updated_at < NOW() - $1::interval
	`, fmt.Sprintf("%d seconds", int(olderThan.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("failed to recover stale tasks: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// CleanupOld deletes terminal tasks older than the retention period.
func (q *TaskQueue) CleanupOld(ctx context.Context, retention time.Duration) (int, error) {
	result, err := q.pool.Exec(ctx, `
		DELETE FROM task_queue
		WHERE status IN ('completed', 'failed', 'cancelled')
		  AND updated_at < NOW() - $1::interval
	`, fmt.Sprintf("%d seconds", int(retention.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old tasks: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// Get returns one task by id, or nil when it does not exist.
func (q *TaskQueue) Get(ctx context.Context, taskID string) (*Task, error) {
	var task Task
	err := q.pool.QueryRow(ctx, `
		SELECT id, task_type, payload, priority, status,
		       scheduled_for, started_at, completed_at,
		       worker_id, retry_count, max_retries, error_message,
		       created_at, updated_at
		FROM task_queue
		WHERE id = $1
	`, taskID).Scan(
		&task.ID, &task.TaskType, &task.Payload, &task.Priority, &task.Status,
		&task.ScheduledFor, &task.StartedAt, &task.CompletedAt,
		&task.WorkerID, &task.RetryCount, &task.MaxRetries, &task.ErrorMessage,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", taskID, err)
	}
	return &task, nil
}
