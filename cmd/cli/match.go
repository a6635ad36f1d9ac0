package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goshopper/price-engine/internal/matching"
)

var (
	matchCandidates []string
	matchOutput     string
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match <name>",
	Short: "Classify a product name against candidate names",
	Long: `Classify one product name against a list of candidate names using the
engine's matching pipeline: normalization, shorthand expansion, and
weighted fingerprint similarity. Useful for tuning thresholds and
inspecting why two receipt lines did or did not match.`,
	Example: `  price-engine match "yaourt danon 500 g" -c "Yaourt Danone 500g" -c "Lait Nido 400g"
  price-engine match "pdt 1kg" -c "Pomme de terre 1kg" --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringArrayVarP(&matchCandidates, "candidate", "c", nil, "Candidate name (repeatable)")
	matchCmd.Flags().StringVar(&matchOutput, "output", "table", "Output format: table or json")
	matchCmd.MarkFlagRequired("candidate")
}

func runMatch(cmd *cobra.Command, args []string) error {
	query := args[0]
	res := matching.ClassifyAgainst(query, matchCandidates, matching.DefaultThresholds())

	if matchOutput == "json" {
		out := struct {
			Query       string               `json:"query"`
			Fingerprint matching.Fingerprint `json:"fingerprint"`
			Matched     bool                 `json:"matched"`
			Type        matching.MatchType   `json:"type"`
			Confidence  float64              `json:"confidence"`
			MatchedName string               `json:"matchedName,omitempty"`
			Suggestions []matching.Suggestion `json:"suggestions,omitempty"`
		}{
			Query:       query,
			Fingerprint: matching.ComputeFingerprint(query),
			Matched:     res.Matched,
			Type:        res.Type,
			Confidence:  res.Confidence,
			MatchedName: res.MatchedName,
			Suggestions: res.Suggestions,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fp := matching.ComputeFingerprint(query)
	fmt.Printf("query:      %s\n", query)
	fmt.Printf("normalized: %s\n", fp.NormalizedName)
	if fp.Brand != "" {
		fmt.Printf("brand:      %s\n", fp.Brand)
	}
	if fp.Size != "" {
		fmt.Printf("size:       %s %s\n", fp.Size, fp.Unit)
	}
	if fp.Category != "" {
		fmt.Printf("category:   %s\n", fp.Category)
	}
	fmt.Printf("result:     %s (confidence %.4f)\n", res.Type, res.Confidence)
	if res.Matched {
		fmt.Printf("matched:    %s\n", res.MatchedName)
	}

	if len(res.Suggestions) > 0 {
		fmt.Println("\nsuggestions:")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, s := range res.Suggestions {
			fmt.Fprintf(w, "  %.4f\t%s\n", s.Score, s.Name)
		}
		w.Flush()
	}
	return nil
}
