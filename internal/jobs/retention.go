// Package jobs contains the ledger maintenance jobs: archiving old
// price points to blob storage and pruning them from postgres. The
// latest point per store and product is always kept, so current prices
// and matching candidates survive any retention setting.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goshopper/price-engine/internal/storage"
)

// RetentionConfig configures the ledger retention policy.
type RetentionConfig struct {
	PointRetentionDays int  // price points older than this become prunable
	ArchiveFirst       bool // write a snapshot to storage before deleting
}

// DefaultRetentionConfig returns sensible retention defaults.
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		PointRetentionDays: 730, // two years of history
		ArchiveFirst:       true,
	}
}

// prunablePredicate selects points older than the cutoff that are not
// the newest point of their store+product pair.
const prunablePredicate = `
	recorded_at < $1
	AND id NOT IN (
		SELECT DISTINCT ON (store_name_normalized, product_name_normalized) id
		FROM price_points
		ORDER BY store_name_normalized, product_name_normalized, recorded_at DESC
	)
`

// ArchiveOldPricePoints writes the prunable price points as one JSON
// snapshot into storage. Returns the number of archived points and the
// storage key, or an empty key when there was nothing to archive.
func ArchiveOldPricePoints(ctx context.Context, db *pgxpool.Pool, store storage.Storage, cfg RetentionConfig) (int, string, error) {
	cutoff := time.Now().AddDate(0, 0, -cfg.PointRetentionDays)

	var count int
	var payload []byte
	err := db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(json_agg(row_to_json(p)), '[]')
		FROM (
			SELECT * FROM price_points
			WHERE `+prunablePredicate+`
			ORDER BY recorded_at
		) p
	`, cutoff).Scan(&count, &payload)
	if err != nil {
		return 0, "", fmt.Errorf("collect prunable price points: %w", err)
	}
	if count == 0 {
		return 0, "", nil
	}

	if !json.Valid(payload) {
		return 0, "", fmt.Errorf("archive payload is not valid JSON")
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("ledger/%s/price-points-%s.json", now.Format("2006"), now.Format("2006-01-02T150405Z"))
	err = store.Put(ctx, key, payload, &storage.Metadata{
		ContentType: "application/json",
		PointCount:  count,
		ArchivedAt:  now,
	})
	if err != nil {
		return 0, "", fmt.Errorf("write archive %s: %w", key, err)
	}

	slog.Info("archived old price points", "count", count, "key", key, "cutoff", cutoff)
	return count, key, nil
}

// CleanupOldPricePoints deletes the prunable price points. Returns the
// number of rows removed.
func CleanupOldPricePoints(ctx context.Context, db *pgxpool.Pool, cfg RetentionConfig) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -cfg.PointRetentionDays)

	result, err := db.Exec(ctx, `
		DELETE FROM price_points
		WHERE `+prunablePredicate+`
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup old price points: %w", err)
	}

	deleted := int(result.RowsAffected())
	slog.Info("cleaned up old price points", "rows_deleted", deleted, "cutoff", cutoff)
	return deleted, nil
}

// RunLedgerRetention archives (when configured) and prunes old price
// points in one pass.
func RunLedgerRetention(ctx context.Context, db *pgxpool.Pool, store storage.Storage, cfg RetentionConfig) (archived, deleted int, err error) {
	if cfg.ArchiveFirst {
		archived, _, err = ArchiveOldPricePoints(ctx, db, store, cfg)
		if err != nil {
			return 0, 0, err
		}
	}

	deleted, err = CleanupOldPricePoints(ctx, db, cfg)
	if err != nil {
		return archived, 0, err
	}
	return archived, deleted, nil
}
