package taskqueue

import (
	"encoding/json"
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusClaimed    TaskStatus = "claimed"
	StatusProcessing TaskStatus = "processing"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
	StatusCancelled  TaskStatus = "cancelled"
)

type TaskType string

const (
	// TaskTypeReceiptIngest applies one receipt batch to the ledger.
	TaskTypeReceiptIngest TaskType = "receipt_ingest"
	// TaskTypeLedgerPrune archives and removes old price points.
	TaskTypeLedgerPrune TaskType = "ledger_prune"
)

type Task struct {
	ID           string          `json:"id"`
	TaskType     string          `json:"taskType"`
	Payload      json.RawMessage `json:"payload"`
	Priority     int             `json:"priority"`
	Status       TaskStatus      `json:"status"`
	ScheduledFor time.Time       `json:"scheduledFor"`
	StartedAt    *time.Time      `json:"startedAt,omitempty"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`
	WorkerID     *string         `json:"workerId,omitempty"`
	RetryCount   int             `json:"retryCount"`
	MaxRetries   int             `json:"maxRetries"`
	ErrorMessage *string         `json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type ClaimedTask struct {
	ID       string          `json:"id"`
	TaskType string          `json:"taskType"`
	Payload  json.RawMessage `json:"payload"`
}
