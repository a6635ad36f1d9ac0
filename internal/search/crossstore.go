// Package search answers "who else sells this, and for how much" over
// the price ledger. It is read-only: it scores a recent window of price
// points against a query name and never writes.
package search

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/matching"
)

// DefaultWindow bounds how many recent price points one search scans.
const DefaultWindow = 1000

// productSearchFloor is the minimum score for free-text product search
// hits. Lower than the match thresholds on purpose; search is a
// discovery surface, not a dedup decision.
const productSearchFloor = 0.3

// Offer is one store's current price for a product that matched the
// query.
type Offer struct {
	StoreName    string    `json:"storeName"`
	ProductName  string    `json:"productName"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	Unit         string    `json:"unit,omitempty"`
	PricePerUnit float64   `json:"pricePerUnit"`
	RecordedAt   time.Time `json:"recordedAt"`
	Score        float64   `json:"score"`
}

// Comparison is the cross-store answer for one query.
type Comparison struct {
	Query            string  `json:"query"`
	Offers           []Offer `json:"offers"` // ascending by price
	PotentialSavings float64 `json:"potentialSavings,omitempty"`
}

// Hit is one free-text product search result.
type Hit struct {
	ProductName string  `json:"productName"`
	StoreName   string  `json:"storeName"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Score       float64 `json:"score"`
}

// Searcher runs similarity scans over the ledger's recent window.
type Searcher struct {
	store       ledger.Store
	minScore    float64
	window      int
	parallelism int64
	logger      *slog.Logger
}

// NewSearcher builds a searcher. Zero window falls back to
// DefaultWindow; minScore <= 0 falls back to the semantic threshold so
// cross-store hits carry at least category-level confidence.
func NewSearcher(store ledger.Store, minScore float64, window int, logger *slog.Logger) *Searcher {
	if window <= 0 {
		window = DefaultWindow
	}
	if minScore <= 0 {
		minScore = matching.DefaultThresholds().Semantic
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{
		store:       store,
		minScore:    minScore,
		window:      window,
		parallelism: int64(runtime.GOMAXPROCS(0)),
		logger:      logger,
	}
}

// CompareAcrossStores finds the best matching offer per store, excluding
// excludeStoreKey (the store the shopper already bought from). Offers
// come back ascending by price. When referencePrice > 0 and a cheaper
// offer exists, PotentialSavings is the difference to the cheapest one.
// A storage failure degrades to an empty comparison.
func (s *Searcher) CompareAcrossStores(ctx context.Context, productName, excludeStoreKey string, referencePrice float64) Comparison {
	cmp := Comparison{Query: productName, Offers: []Offer{}}

	points, err := s.store.RecentWindow(ctx, s.window)
	if err != nil {
		s.logger.Warn("cross-store window fetch failed", "query", productName, "error", err)
		return cmp
	}

	scores := s.scoreAll(ctx, productName, points)

	// Best scoring point per store; on equal scores the window order
	// (newest first) wins.
	bestPerStore := make(map[string]int)
	for i, p := range points {
		if p.StoreNameNormalized == excludeStoreKey || scores[i] < s.minScore {
			continue
		}
		if j, ok := bestPerStore[p.StoreNameNormalized]; !ok || scores[i] > scores[j] {
			bestPerStore[p.StoreNameNormalized] = i
		}
	}

	for _, i := range bestPerStore {
		p := points[i]
		cmp.Offers = append(cmp.Offers, Offer{
			StoreName:    p.StoreName,
			ProductName:  p.ProductNameRaw,
			Price:        p.Price,
			Currency:     p.Currency,
			Unit:         p.Unit,
			PricePerUnit: p.PricePerUnit,
			RecordedAt:   p.RecordedAt,
			Score:        scores[i],
		})
	}

	sort.Slice(cmp.Offers, func(i, j int) bool {
		if cmp.Offers[i].Price != cmp.Offers[j].Price {
			return cmp.Offers[i].Price < cmp.Offers[j].Price
		}
		return cmp.Offers[i].StoreName < cmp.Offers[j].StoreName
	})

	if referencePrice > 0 && len(cmp.Offers) > 0 && cmp.Offers[0].Price < referencePrice {
		cmp.PotentialSavings = referencePrice - cmp.Offers[0].Price
	}
	return cmp
}

// SearchProducts is the free-text lookup across all stores. Results are
// deduped by (store, normalized name), sorted by score descending, and
// capped at limit.
func (s *Searcher) SearchProducts(ctx context.Context, query string, limit int) []Hit {
	if limit <= 0 {
		limit = 20
	}

	points, err := s.store.RecentWindow(ctx, s.window)
	if err != nil {
		s.logger.Warn("product search window fetch failed", "query", query, "error", err)
		return []Hit{}
	}

	scores := s.scoreAll(ctx, query, points)

	type key struct{ store, name string }
	seen := make(map[key]bool)
	hits := make([]Hit, 0)
	for i, p := range points {
		if scores[i] < productSearchFloor {
			continue
		}
		k := key{p.StoreNameNormalized, p.ProductNameNormalized}
		if seen[k] {
			continue
		}
		seen[k] = true
		hits = append(hits, Hit{
			ProductName: p.ProductNameRaw,
			StoreName:   p.StoreName,
			Price:       p.Price,
			Currency:    p.Currency,
			Score:       scores[i],
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// scoreAll fingerprints the query once and scores every point against
// it, fanning out across CPUs for large windows. Scoring is pure, so
// workers only ever write their own slice slot.
func (s *Searcher) scoreAll(ctx context.Context, query string, points []ledger.PricePoint) []float64 {
	qfp := matching.ComputeFingerprint(query)
	scores := make([]float64, len(points))

	sem := semaphore.NewWeighted(s.parallelism)
	var wg sync.WaitGroup
	for i := range points {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i int) {
			defer sem.Release(1)
			defer wg.Done()
			cfp := matching.ComputeFingerprint(points[i].ProductNameRaw)
			scores[i] = matching.FingerprintSimilarity(qfp, cfp)
		}(i)
	}
	wg.Wait()
	return scores
}
