package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goshopper/price-engine/internal/database"
	"github.com/goshopper/price-engine/internal/jobs"
	"github.com/goshopper/price-engine/internal/storage"
)

var (
	maintainMaxAgeDays int
	maintainArchiveDir string
	maintainNoArchive  bool
)

// maintainCmd represents the maintain command
var maintainCmd = &cobra.Command{
	Use:   "maintain",
	Short: "Archive and prune old price points from the ledger",
	Long: `Removes price points older than the retention window, keeping the
newest point of every store+product pair so latest-price lookups keep
working. Unless --no-archive is set, the pruned rows are first written
as a JSON snapshot under the archive directory.`,
	Example: `  price-engine maintain
  price-engine maintain --max-age-days 365 --archive-dir /var/lib/price-engine/archive
  price-engine maintain --no-archive`,
	RunE: runMaintain,
}

func init() {
	rootCmd.AddCommand(maintainCmd)

	maintainCmd.Flags().IntVar(&maintainMaxAgeDays, "max-age-days", 730, "Prune price points older than this many days")
	maintainCmd.Flags().StringVar(&maintainArchiveDir, "archive-dir", "./archive", "Directory for archive snapshots")
	maintainCmd.Flags().BoolVar(&maintainNoArchive, "no-archive", false, "Delete without writing an archive snapshot")
}

func runMaintain(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if _, err := ledgerStore(ctx); err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}

	var blobs storage.Storage
	if !maintainNoArchive {
		var err error
		blobs, err = storage.NewLocalStorage(maintainArchiveDir)
		if err != nil {
			return fmt.Errorf("failed to open archive directory %s: %w", maintainArchiveDir, err)
		}
	}

	cfg := jobs.RetentionConfig{
		PointRetentionDays: maintainMaxAgeDays,
		ArchiveFirst:       !maintainNoArchive,
	}

	archived, deleted, err := jobs.RunLedgerRetention(ctx, database.Pool(), blobs, cfg)
	if err != nil {
		return fmt.Errorf("retention run failed: %w", err)
	}

	logger.Info().
		Int("archived", archived).
		Int("deleted", deleted).
		Int("max_age_days", maintainMaxAgeDays).
		Msg("Ledger maintenance complete")
	fmt.Printf("Archived %d and deleted %d price points older than %d days\n", archived, deleted, maintainMaxAgeDays)
	return nil
}
