package basket

import (
	"fmt"
	"time"
)

// ListItem is one line of a shopping list. Names are free text and are
// matched against each store's known products the same way receipt
// items are.
type ListItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// PlanRequest carries a shopping list to plan for.
type PlanRequest struct {
	Items     []ListItem `json:"items"`
	MaxStores int        `json:"maxStores,omitempty"` // split plan store cap, 0 means default
}

// CoverageTier buckets stores by how much of the list they carry.
// Higher tiers sort first; within a tier price decides.
type CoverageTier int

const (
	TierLow    CoverageTier = 1 // below 80%
	TierMedium CoverageTier = 2 // 80% and up
	TierHigh   CoverageTier = 3 // 90% and up
	TierFull   CoverageTier = 4 // everything on the list
)

// TierFromRatio returns the coverage tier for a ratio in [0,1].
func TierFromRatio(ratio float64) CoverageTier {
	switch {
	case ratio >= 1.0:
		return TierFull
	case ratio >= 0.9:
		return TierHigh
	case ratio >= 0.8:
		return TierMedium
	default:
		return TierLow
	}
}

// Quote is one list item priced at one store.
type Quote struct {
	ItemName    string  `json:"itemName"`
	ProductName string  `json:"productName"` // the store's matched product
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
	Score       float64 `json:"score"`
}

// MissingItem is a list item a store does not carry.
type MissingItem struct {
	ItemName string  `json:"itemName"`
	Penalty  float64 `json:"penalty"` // sorting penalty, not a payable price
}

// StorePlan is the one-store answer: what the list costs if the whole
// trip happens at this store.
type StorePlan struct {
	StoreName    string        `json:"storeName"`
	StoreKey     string        `json:"storeKey"`
	Coverage     float64       `json:"coverage"`
	CoverageTier CoverageTier  `json:"coverageTier"`
	Total        float64       `json:"total"`        // payable total for carried items
	SortingTotal float64       `json:"sortingTotal"` // total plus missing-item penalties
	Currency     string        `json:"currency"`
	Quotes       []Quote       `json:"quotes"`
	Missing      []MissingItem `json:"missing,omitempty"`
}

// StoreVisit is one store's share of a split plan.
type StoreVisit struct {
	StoreName string  `json:"storeName"`
	StoreKey  string  `json:"storeKey"`
	Subtotal  float64 `json:"subtotal"`
	Quotes    []Quote `json:"quotes"`
}

// SplitPlan spreads the list over several stores, putting each item
// where it is cheapest.
type SplitPlan struct {
	Visits    []StoreVisit  `json:"visits"`
	Total     float64       `json:"total"`
	Coverage  float64       `json:"coverage"`
	Currency  string        `json:"currency"`
	Unmatched []MissingItem `json:"unmatched,omitempty"`
	Algorithm string        `json:"algorithm"` // greedy or optimal
}

// Config holds the planner knobs.
type Config struct {
	CatalogTTL     time.Duration // how long a catalog snapshot stays valid
	Window         int           // recent price points scanned per snapshot
	MinScore       float64       // similarity floor for a store to carry an item
	MaxListItems   int
	MaxCandidates  int           // stores considered for split planning
	OptimalTimeout time.Duration // budget for the exhaustive split search
	PenaltyMult    float64       // missing item penalty, multiple of market average
	PenaltyFloor   float64       // penalty when no market average exists
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		CatalogTTL:     5 * time.Minute,
		Window:         1000,
		MinScore:       0.70,
		MaxListItems:   100,
		MaxCandidates:  12,
		OptimalTimeout: 100 * time.Millisecond,
		PenaltyMult:    2.0,
		PenaltyFloor:   10000, // CDF
	}
}

// Validate rejects empty or oversized lists before any catalog work.
func (r *PlanRequest) Validate(maxItems int) error {
	if len(r.Items) == 0 {
		return fmt.Errorf("shopping list is empty")
	}
	if len(r.Items) > maxItems {
		return fmt.Errorf("shopping list exceeds %d items", maxItems)
	}
	for i, item := range r.Items {
		if item.Name == "" {
			return fmt.Errorf("item %d has no name", i)
		}
		if item.Quantity < 0 {
			return fmt.Errorf("item %d has negative quantity", i)
		}
	}
	return nil
}

// normalizedQuantity treats a missing quantity as 1, matching receipt
// ingestion.
func normalizedQuantity(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}
