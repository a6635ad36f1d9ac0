package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/matching"
	"github.com/goshopper/price-engine/internal/stores"
)

var (
	ingestStore    string
	ingestCurrency string
	ingestReceipt  string
)

// receiptFile mirrors the ingest endpoint's request body so the same
// JSON documents work for both.
type receiptFile struct {
	ReceiptID string `json:"receiptId,omitempty"`
	StoreName string `json:"storeName,omitempty"`
	Currency  string `json:"currency,omitempty"`
	Items     []struct {
		Name      string  `json:"name"`
		UnitPrice float64 `json:"unitPrice"`
		Quantity  float64 `json:"quantity,omitempty"`
		Unit      string  `json:"unit,omitempty"`
	} `json:"items"`
}

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest a receipt JSON file into the price ledger",
	Long: `Read one receipt's extracted items from a JSON file and apply them to the
price ledger. Items are matched against the store's known products and
recorded as new products, price changes, or duplicates.`,
	Example: `  price-engine ingest ./receipt.json
  price-engine ingest ./receipt.json --store "Kin Marché" --currency CDF`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestStore, "store", "", "Store name (overrides the file's storeName)")
	ingestCmd.Flags().StringVar(&ingestCurrency, "currency", "", "Currency code (overrides the file's currency)")
	ingestCmd.Flags().StringVar(&ingestReceipt, "receipt-id", "", "Receipt id (generated when omitted)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read receipt file: %w", err)
	}

	var file receiptFile
	if err := json.Unmarshal(content, &file); err != nil {
		return fmt.Errorf("failed to parse receipt file: %w", err)
	}

	if ingestStore != "" {
		file.StoreName = ingestStore
	}
	if ingestCurrency != "" {
		file.Currency = ingestCurrency
	}
	if ingestReceipt != "" {
		file.ReceiptID = ingestReceipt
	}
	if file.StoreName == "" {
		return fmt.Errorf("store name missing: set storeName in the file or pass --store")
	}
	if len(file.Items) == 0 {
		return fmt.Errorf("receipt file has no items")
	}
	if file.ReceiptID == "" {
		file.ReceiptID = uuid.New().String()
	}
	if file.Currency == "" {
		file.Currency = "CDF"
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

	rc := ledger.ReceiptContext{
		ReceiptID:           file.ReceiptID,
		StoreName:           file.StoreName,
		StoreNameNormalized: stores.Canonicalize(file.StoreName),
		Currency:            file.Currency,
	}
	items := make([]ledger.Item, len(file.Items))
	for i, it := range file.Items {
		items[i] = ledger.Item{Name: it.Name, UnitPrice: it.UnitPrice, Quantity: it.Quantity, Unit: it.Unit}
	}

	summary := upserter.UpsertBatch(ctx, rc, items)

	logger.Info().
		Str("receiptId", file.ReceiptID).
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("Receipt ingested")

	for _, r := range summary.Results {
		line := fmt.Sprintf("%-8s %s", r.Action, r.Name)
		if r.MatchedName != "" && r.Action != ledger.ActionCreated {
			line += fmt.Sprintf("  -> %s (%s %.2f)", r.MatchedName, r.MatchType, r.Confidence)
		}
		if r.Error != "" {
			line += "  error: " + r.Error
		}
		fmt.Println(line)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d items failed", summary.Failed, len(items))
	}
	return nil
}
