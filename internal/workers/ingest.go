package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/metrics"
	"github.com/goshopper/price-engine/internal/taskqueue"
)

// ReceiptTask is the payload for receipt_ingest tasks: one receipt's
// context plus its extracted items.
type ReceiptTask struct {
	Receipt ledger.ReceiptContext `json:"receipt"`
	Items   []ledger.Item         `json:"items"`
}

// NewReceiptIngestHandler returns the handler that applies a queued
// receipt batch to the ledger. Item-level failures are reported in the
// summary and do not fail the task; only an unusable payload does.
func NewReceiptIngestHandler(upserter *ledger.Upserter) func(context.Context, []byte) error {
	return func(ctx context.Context, payload []byte) error {
		var task ReceiptTask
		if err := json.Unmarshal(payload, &task); err != nil {
			return fmt.Errorf("failed to unmarshal receipt payload: %w", err)
		}
		if task.Receipt.StoreNameNormalized == "" {
			return fmt.Errorf("receipt %s has no store", task.Receipt.ReceiptID)
		}
		if len(task.Items) == 0 {
			return fmt.Errorf("receipt %s has no items", task.Receipt.ReceiptID)
		}

		summary := upserter.UpsertBatch(ctx, task.Receipt, task.Items)
		for _, r := range summary.Results {
			metrics.RecordItem(string(r.Action))
			if r.Action != ledger.ActionFailed {
				metrics.RecordMatch(r.MatchType, r.Confidence)
			}
		}

		log.Info().
			Str("receiptId", task.Receipt.ReceiptID).
			Str("store", task.Receipt.StoreName).
			Int("created", summary.Created).
			Int("updated", summary.Updated).
			Int("skipped", summary.Skipped).
			Int("failed", summary.Failed).
			Msg("Queued receipt ingested")
		return nil
	}
}

// NewReceiptWorker builds a worker preconfigured for receipt ingestion.
func NewReceiptWorker(queue *taskqueue.TaskQueue, upserter *ledger.Upserter, numWorkers int, pollDelay time.Duration) *Worker {
	w := New(queue, WorkerConfig{
		TaskTypes:  []string{string(taskqueue.TaskTypeReceiptIngest)},
		NumWorkers: numWorkers,
		PollDelay:  pollDelay,
	})
	w.RegisterHandler(taskqueue.TaskTypeReceiptIngest, NewReceiptIngestHandler(upserter))
	return w
}
