package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/goshopper/price-engine/internal/jobs"
	"github.com/goshopper/price-engine/internal/storage"
	"github.com/goshopper/price-engine/internal/taskqueue"
)

// PruneTask is the payload for ledger_prune tasks. Zero values fall back
// to the retention defaults.
type PruneTask struct {
	MaxAgeDays int  `json:"maxAgeDays,omitempty"`
	NoArchive  bool `json:"noArchive,omitempty"`
}

// NewLedgerPruneHandler returns the handler that archives and deletes
// old price points. A nil blob store disables archival regardless of
// the payload.
func NewLedgerPruneHandler(queue *taskqueue.TaskQueue, blobs storage.Storage) func(context.Context, []byte) error {
	return func(ctx context.Context, payload []byte) error {
		var task PruneTask
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &task); err != nil {
				return fmt.Errorf("failed to unmarshal prune payload: %w", err)
			}
		}

		cfg := jobs.DefaultRetentionConfig()
		if task.MaxAgeDays > 0 {
			cfg.PointRetentionDays = task.MaxAgeDays
		}
		if task.NoArchive || blobs == nil {
			cfg.ArchiveFirst = false
		}

		archived, deleted, err := jobs.RunLedgerRetention(ctx, queue.GetPool(), blobs, cfg)
		if err != nil {
			return err
		}

		log.Info().
			Int("archived", archived).
			Int("deleted", deleted).
			Int("maxAgeDays", cfg.PointRetentionDays).
			Msg("Ledger prune task completed")
		return nil
	}
}
