package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goshopper/price-engine/internal/apiclient"
	"github.com/goshopper/price-engine/internal/basket"
)

var (
	planSplit     bool
	planMaxStores int
	planTop       int
	planServer    string
	planAPIKey    string
)

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan <item>...",
	Short: "Plan where to buy a shopping list",
	Long: `Rank stores for buying a shopping list in one trip, or with --split
spread the list over several stores putting each item where it is
cheapest. An item can carry a quantity prefix like "3x sel 500g".`,
	Example: `  price-engine plan "riz parfumé 5kg" "sel 500g"
  price-engine plan --split --max-stores 2 "riz parfumé 5kg" "3x sel 500g"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().BoolVar(&planSplit, "split", false, "Split the list across stores instead of ranking single trips")
	planCmd.Flags().IntVar(&planMaxStores, "max-stores", 0, "Store cap for --split (default 3)")
	planCmd.Flags().IntVar(&planTop, "top", 5, "Number of stores to show without --split")
	planCmd.Flags().StringVar(&planServer, "server", "", "Query a running engine instead of the database (base URL)")
	planCmd.Flags().StringVar(&planAPIKey, "api-key", "", "API key for --server mode")
}

// parseListItem splits an optional "<n>x " quantity prefix off an item.
func parseListItem(arg string) basket.ListItem {
	head, rest, ok := strings.Cut(arg, " ")
	if ok && strings.HasSuffix(head, "x") {
		if n, err := strconv.Atoi(strings.TrimSuffix(head, "x")); err == nil && n > 0 {
			return basket.ListItem{Name: rest, Quantity: n}
		}
	}
	return basket.ListItem{Name: arg, Quantity: 1}
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	req := basket.PlanRequest{MaxStores: planMaxStores}
	for _, arg := range args {
		req.Items = append(req.Items, parseListItem(arg))
	}

	if planSplit {
		plan, err := splitList(ctx, req)
		if err != nil {
			return err
		}
		printSplitPlan(plan)
		return nil
	}

	plans, err := rankStores(ctx, req)
	if err != nil {
		return err
	}
	printStorePlans(plans)
	return nil
}

func rankStores(ctx context.Context, req basket.PlanRequest) ([]basket.StorePlan, error) {
	if planServer != "" {
		client := apiclient.New(planServer, planAPIKey, apiclient.DefaultConfig())
		return client.PlanBasket(ctx, req)
	}
	planner, err := localPlanner(ctx)
	if err != nil {
		return nil, err
	}
	return planner.PlanStores(ctx, req)
}

func splitList(ctx context.Context, req basket.PlanRequest) (*basket.SplitPlan, error) {
	if planServer != "" {
		client := apiclient.New(planServer, planAPIKey, apiclient.DefaultConfig())
		return client.SplitBasket(ctx, req)
	}
	planner, err := localPlanner(ctx)
	if err != nil {
		return nil, err
	}
	return planner.PlanSplit(ctx, req)
}

func localPlanner(ctx context.Context) (*basket.Planner, error) {
	store, err := ledgerStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	bcfg := basket.DefaultConfig()
	bcfg.Window = cfg.Search.Window
	bcfg.MinScore = cfg.Matching.SemanticThreshold
	return basket.NewPlanner(basket.NewCatalog(store, bcfg, nil), bcfg, nil), nil
}

func printStorePlans(plans []basket.StorePlan) {
	if len(plans) == 0 {
		fmt.Println("no stores found")
		return
	}
	if planTop > 0 && len(plans) > planTop {
		plans = plans[:planTop]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STORE\tCOVERAGE\tTOTAL\tCURRENCY\tMISSING")
	for _, p := range plans {
		missing := make([]string, 0, len(p.Missing))
		for _, m := range p.Missing {
			missing = append(missing, m.ItemName)
		}
		fmt.Fprintf(w, "%s\t%.0f%%\t%.2f\t%s\t%s\n",
			p.StoreName, p.Coverage*100, p.Total, p.Currency, strings.Join(missing, ", "))
	}
	w.Flush()
}

func printSplitPlan(plan *basket.SplitPlan) {
	if len(plan.Visits) == 0 {
		fmt.Println("no stores carry any item on the list")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, v := range plan.Visits {
		fmt.Fprintf(w, "%s\t%.2f %s\n", v.StoreName, v.Subtotal, plan.Currency)
		for _, q := range v.Quotes {
			fmt.Fprintf(w, "  %dx %s\t%.2f\n", q.Quantity, q.ProductName, q.LineTotal)
		}
	}
	w.Flush()

	fmt.Printf("\ntotal: %.2f %s (%.0f%% of the list, %s)\n",
		plan.Total, plan.Currency, plan.Coverage*100, plan.Algorithm)
	for _, m := range plan.Unmatched {
		fmt.Printf("not found anywhere: %s\n", m.ItemName)
	}
}
