package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goshopper/price-engine/internal/apiclient"
	"github.com/goshopper/price-engine/internal/search"
	"github.com/goshopper/price-engine/internal/stores"
)

var (
	compareExclude string
	comparePrice   float64
	compareServer  string
	compareAPIKey  string
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <product>",
	Short: "Compare a product's price across stores",
	Long: `Search the recent price ledger for the product at every store and list
the best offer per store, cheapest first. With --price, the potential
saving against that reference price is reported.`,
	Example: `  price-engine compare "Riz parfumé 5kg"
  price-engine compare "Riz parfumé 5kg" --exclude "Kin Marché" --price 10000`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareExclude, "exclude", "", "Store to exclude (the one already bought from)")
	compareCmd.Flags().Float64Var(&comparePrice, "price", 0, "Reference price for the savings calculation")
	compareCmd.Flags().StringVar(&compareServer, "server", "", "Query a running engine instead of the database (base URL)")
	compareCmd.Flags().StringVar(&compareAPIKey, "api-key", "", "API key for --server mode")
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var cmp search.Comparison
	if compareServer != "" {
		client := apiclient.New(compareServer, compareAPIKey, apiclient.DefaultConfig())
		remote, err := client.Compare(ctx, args[0], stores.Canonicalize(compareExclude), comparePrice)
		if err != nil {
			return fmt.Errorf("remote compare failed: %w", err)
		}
		cmp = *remote
	} else {
		store, err := ledgerStore(ctx)
		if err != nil {
			return fmt.Errorf("failed to open ledger: %w", err)
		}
		searcher := search.NewSearcher(store, cfg.Search.MinScore, cfg.Search.Window, nil)
		cmp = searcher.CompareAcrossStores(ctx, args[0], stores.Canonicalize(compareExclude), comparePrice)
	}

	if len(cmp.Offers) == 0 {
		fmt.Println("no matching offers found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STORE\tPRODUCT\tPRICE\tCURRENCY\tSCORE\tRECORDED")
	for _, o := range cmp.Offers {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%.3f\t%s\n",
			o.StoreName, o.ProductName, o.Price, o.Currency, o.Score,
			o.RecordedAt.Format("2006-01-02"))
	}
	w.Flush()

	if cmp.PotentialSavings > 0 {
		fmt.Printf("\npotential savings: %.2f\n", cmp.PotentialSavings)
	}
	return nil
}
