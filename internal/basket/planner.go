package basket

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/goshopper/price-engine/internal/matching"
)

// maxRankedStores caps the single-store ranking; nobody compares more
// stores than this.
const maxRankedStores = 50

// Planner answers "where should this shopping list be bought" over the
// catalog snapshot, either at one store or split across several.
type Planner struct {
	catalog     *Catalog
	cfg         Config
	logger      *slog.Logger
	parallelism int64
}

// NewPlanner builds a planner. Zero-valued config fields fall back to
// DefaultConfig.
func NewPlanner(catalog *Catalog, cfg Config, logger *slog.Logger) *Planner {
	def := DefaultConfig()
	if cfg.MinScore <= 0 {
		cfg.MinScore = def.MinScore
	}
	if cfg.MaxListItems <= 0 {
		cfg.MaxListItems = def.MaxListItems
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = def.MaxCandidates
	}
	if cfg.OptimalTimeout <= 0 {
		cfg.OptimalTimeout = def.OptimalTimeout
	}
	if cfg.PenaltyMult <= 0 {
		cfg.PenaltyMult = def.PenaltyMult
	}
	if cfg.PenaltyFloor <= 0 {
		cfg.PenaltyFloor = def.PenaltyFloor
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		catalog:     catalog,
		cfg:         cfg,
		logger:      logger,
		parallelism: int64(runtime.GOMAXPROCS(0)),
	}
}

// plannedItem is a list item with its fingerprint computed once.
type plannedItem struct {
	Name        string
	Quantity    int
	Fingerprint matching.Fingerprint
}

// itemQuote is one item's best match at one store. ok is false when the
// store carries nothing scoring above the floor.
type itemQuote struct {
	ok      bool
	product catalogProduct
	score   float64
}

// evaluation is the item-by-store quote matrix both planners consume.
// quotes[s][i] is item i at snapshot store s.
type evaluation struct {
	snap      *snapshot
	items     []plannedItem
	quotes    [][]itemQuote
	penalties []float64 // per item, already quantity-weighted
}

// PlanStores ranks stores for buying the whole list in one trip.
// Coverage decides first, price second; a store with everything but
// pricier beats a cheaper store missing an item, via the penalty built
// into the sorting total.
func (p *Planner) PlanStores(ctx context.Context, req PlanRequest) ([]StorePlan, error) {
	ev, err := p.evaluate(ctx, req)
	if err != nil {
		return nil, err
	}

	plans := make([]StorePlan, 0, len(ev.snap.Stores))
	for s := range ev.snap.Stores {
		plans = append(plans, p.storePlan(ev, s))
	}

	sort.Slice(plans, func(i, j int) bool {
		if plans[i].CoverageTier != plans[j].CoverageTier {
			return plans[i].CoverageTier > plans[j].CoverageTier
		}
		if plans[i].SortingTotal != plans[j].SortingTotal {
			return plans[i].SortingTotal < plans[j].SortingTotal
		}
		return plans[i].StoreKey < plans[j].StoreKey
	})

	if len(plans) > maxRankedStores {
		plans = plans[:maxRankedStores]
	}
	return plans, nil
}

// evaluate validates the request, loads the snapshot, and scores every
// item against every store in parallel. Stores are independent, so each
// worker owns one row of the matrix.
func (p *Planner) evaluate(ctx context.Context, req PlanRequest) (*evaluation, error) {
	if err := req.Validate(p.cfg.MaxListItems); err != nil {
		return nil, err
	}

	snap, err := p.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	items := make([]plannedItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = plannedItem{
			Name:        it.Name,
			Quantity:    normalizedQuantity(it.Quantity),
			Fingerprint: matching.ComputeFingerprint(it.Name),
		}
	}

	quotes := make([][]itemQuote, len(snap.Stores))
	sem := semaphore.NewWeighted(p.parallelism)
	var wg sync.WaitGroup
	for s := range snap.Stores {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(s int) {
			defer sem.Release(1)
			defer wg.Done()
			quotes[s] = p.quoteStore(snap.Stores[s], items)
		}(s)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ev := &evaluation{snap: snap, items: items, quotes: quotes}
	ev.penalties = p.itemPenalties(ev)

	p.logger.Debug("shopping list evaluated",
		slog.Int("items", len(items)),
		slog.Int("stores", len(snap.Stores)),
		slog.Duration("elapsed", time.Since(start)))
	return ev, nil
}

// quoteStore finds the best-scoring product per item at one store.
func (p *Planner) quoteStore(sc *storeCatalog, items []plannedItem) []itemQuote {
	row := make([]itemQuote, len(items))
	for i, item := range items {
		best := itemQuote{}
		for _, prod := range sc.Products {
			score := matching.FingerprintSimilarity(item.Fingerprint, prod.Fingerprint)
			if score < p.cfg.MinScore {
				continue
			}
			if !best.ok || score > best.score ||
				(score == best.score && prod.Price < best.product.Price) {
				best = itemQuote{ok: true, product: prod, score: score}
			}
		}
		row[i] = best
	}
	return row
}

// itemPenalties prices each missing item at a multiple of its market
// average, judged by the best match the market has anywhere. Items no
// store recognizes fall back to a flat floor so missing them still
// hurts the ranking.
func (p *Planner) itemPenalties(ev *evaluation) []float64 {
	penalties := make([]float64, len(ev.items))
	for i, item := range ev.items {
		best := itemQuote{}
		for s := range ev.quotes {
			if q := ev.quotes[s][i]; q.ok && (!best.ok || q.score > best.score) {
				best = q
			}
		}
		per := p.cfg.PenaltyFloor
		if best.ok {
			if avg, ok := ev.snap.Averages[best.product.Normalized]; ok && avg > 0 {
				per = avg * p.cfg.PenaltyMult
			}
		}
		penalties[i] = per * float64(item.Quantity)
	}
	return penalties
}

// storePlan assembles one store's full-trip answer from the matrix.
func (p *Planner) storePlan(ev *evaluation, s int) StorePlan {
	sc := ev.snap.Stores[s]
	plan := StorePlan{
		StoreName: sc.Name,
		StoreKey:  sc.Key,
		Currency:  ev.snap.Currency,
		Quotes:    make([]Quote, 0, len(ev.items)),
	}

	covered := 0
	for i, item := range ev.items {
		q := ev.quotes[s][i]
		if !q.ok {
			plan.Missing = append(plan.Missing, MissingItem{
				ItemName: item.Name,
				Penalty:  ev.penalties[i],
			})
			plan.SortingTotal += ev.penalties[i]
			continue
		}
		covered++
		line := q.product.Price * float64(item.Quantity)
		plan.Quotes = append(plan.Quotes, Quote{
			ItemName:    item.Name,
			ProductName: q.product.Display,
			Quantity:    item.Quantity,
			UnitPrice:   q.product.Price,
			LineTotal:   line,
			Score:       q.score,
		})
		plan.Total += line
		plan.SortingTotal += line
	}

	plan.Coverage = float64(covered) / float64(len(ev.items))
	plan.CoverageTier = TierFromRatio(plan.Coverage)
	return plan
}
