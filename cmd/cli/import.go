package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goshopper/price-engine/internal/importer"
	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/matching"
)

var (
	importStore     string
	importCurrency  string
	importDelimiter string
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import price lists from CSV, XLSX or ZIP files",
	Long: `Bulk-load price lines from store export files into the ledger. Each
file needs a product name and price column; store, quantity and unit
columns are picked up when present. ZIP archives are expanded and every
contained CSV or XLSX file is imported.`,
	Example: `  price-engine import prix-aout.csv --store "Kin Marché"
  price-engine import exports.zip
  price-engine import releve.xlsx --delimiter ";"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importStore, "store", "", "Store for files without a store column")
	importCmd.Flags().StringVar(&importCurrency, "currency", "CDF", "Currency code for imported prices")
	importCmd.Flags().StringVar(&importDelimiter, "delimiter", "", "CSV delimiter (detected when omitted)")
}

func runImport(cmd *cobra.Command, args []string) error {
	var delimiter rune
	if importDelimiter != "" {
		runes := []rune(importDelimiter)
		if len(runes) != 1 {
			return fmt.Errorf("delimiter must be a single character, got %q", importDelimiter)
		}
		delimiter = runes[0]
	}

	ctx := context.Background()
	store, err := ledgerStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}

	matcher := ledger.NewMatcher(store, matching.Thresholds{
		Fuzzy:    cfg.Matching.FuzzyThreshold,
		Semantic: cfg.Matching.SemanticThreshold,
	}, cfg.Matching.CandidateLimit, nil)
	upserter := ledger.NewUpserter(store, matcher, nil)

	imp := importer.New(upserter, importer.Options{
		DefaultStore: importStore,
		Currency:     importCurrency,
		Delimiter:    delimiter,
	}, nil)

	failedFiles := 0
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		summaries, err := imp.Import(ctx, path, content)
		if err != nil {
			logger.Error().Err(err).Str("file", path).Msg("Import failed")
			failedFiles++
			continue
		}

		for _, s := range summaries {
			fmt.Printf("%s: %d rows, %d created, %d updated, %d skipped, %d failed\n",
				s.Filename, s.TotalRows, s.Created, s.Updated, s.Skipped, s.Failed)
			for _, e := range s.Errors {
				fmt.Printf("  line %d: %s %s\n", e.Line, e.Field, e.Message)
			}
		}
	}

	if failedFiles > 0 {
		return fmt.Errorf("%d of %d files failed to import", failedFiles, len(args))
	}
	return nil
}
