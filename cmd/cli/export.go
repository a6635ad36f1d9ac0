package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goshopper/price-engine/internal/export"
	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/stores"
)

var (
	exportStore string
	exportLimit int
	exportOut   string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recent price points to an XLSX workbook",
	Example: `  price-engine export --out prices.xlsx
  price-engine export --store "Kin Marché" --limit 500 --out kin-marche.xlsx`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportStore, "store", "", "Only export this store's products")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 1000, "Maximum number of price points")
	exportCmd.Flags().StringVar(&exportOut, "out", "prices.xlsx", "Output file path")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := ledgerStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}

	var points []ledger.PricePoint
	if exportStore != "" {
		points, err = store.RecentDistinctProducts(ctx, stores.Canonicalize(exportStore), exportLimit)
	} else {
		points, err = store.RecentWindow(ctx, exportLimit)
	}
	if err != nil {
		return fmt.Errorf("failed to load price points: %w", err)
	}

	f := export.Workbook(points)
	defer f.Close()

	if err := f.SaveAs(exportOut); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}

	logger.Info().Str("file", exportOut).Int("points", len(points)).Msg("Export written")
	return nil
}
