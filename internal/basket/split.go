package basket

import (
	"context"
	"log/slog"
	"sort"
)

// defaultMaxStores bounds a split plan; shoppers rarely tolerate more
// than three stops.
const defaultMaxStores = 3

// Algorithm labels reported in SplitPlan.
const (
	algoOptimal        = "optimal"
	algoGreedy         = "greedy"
	algoGreedyFallback = "greedy_fallback" // optimal search ran out of time
)

// PlanSplit spreads the list over up to MaxStores stores. Small search
// spaces get the exhaustive store-combination search; when it exceeds
// its time budget the greedy assignment answers instead.
func (p *Planner) PlanSplit(ctx context.Context, req PlanRequest) (*SplitPlan, error) {
	ev, err := p.evaluate(ctx, req)
	if err != nil {
		return nil, err
	}

	maxStores := req.MaxStores
	if maxStores <= 0 {
		maxStores = defaultMaxStores
	}

	candidates := p.selectCandidates(ev, maxStores)
	if len(candidates) == 0 {
		return &SplitPlan{
			Visits:    []StoreVisit{},
			Currency:  ev.snap.Currency,
			Unmatched: allUnmatched(ev),
			Algorithm: algoGreedy,
		}, nil
	}

	optCtx, cancel := context.WithTimeout(ctx, p.cfg.OptimalTimeout)
	defer cancel()

	assignment, found := p.optimalAssignment(optCtx, ev, candidates, maxStores)
	algo := algoOptimal
	if !found {
		assignment = greedyAssignment(ev, candidates)
		p.trimToMaxStores(ev, assignment, maxStores)
		algo = algoGreedy
		if optCtx.Err() != nil && ctx.Err() == nil {
			algo = algoGreedyFallback
		}
	}

	plan := p.buildSplit(ev, assignment, algo)
	p.logger.Debug("split plan built",
		slog.String("algorithm", algo),
		slog.Int("visits", len(plan.Visits)),
		slog.Float64("coverage", plan.Coverage))
	return plan, nil
}

// selectCandidates keeps the cheapest stores with decent coverage.
// When no store reaches the medium tier the best-covering ones stand in,
// so thin ledgers still get a plan.
func (p *Planner) selectCandidates(ev *evaluation, maxStores int) []int {
	type ranked struct {
		idx  int
		plan StorePlan
	}
	all := make([]ranked, 0, len(ev.snap.Stores))
	for s := range ev.snap.Stores {
		all = append(all, ranked{idx: s, plan: p.storePlan(ev, s)})
	}

	decent := make([]ranked, 0, len(all))
	for _, r := range all {
		if r.plan.CoverageTier >= TierMedium {
			decent = append(decent, r)
		}
	}
	pool := decent
	if len(pool) < maxStores {
		pool = all
	}

	sort.Slice(pool, func(i, j int) bool {
		if pool[i].plan.CoverageTier != pool[j].plan.CoverageTier {
			return pool[i].plan.CoverageTier > pool[j].plan.CoverageTier
		}
		if pool[i].plan.SortingTotal != pool[j].plan.SortingTotal {
			return pool[i].plan.SortingTotal < pool[j].plan.SortingTotal
		}
		return pool[i].plan.StoreKey < pool[j].plan.StoreKey
	})

	limit := p.cfg.MaxCandidates
	if len(pool) < limit {
		limit = len(pool)
	}
	out := make([]int, 0, limit)
	for _, r := range pool[:limit] {
		out = append(out, r.idx)
	}
	return out
}

// assignmentCost prices an item-to-store assignment; unassigned items
// cost their penalty so coverage and price trade off on one axis.
func assignmentCost(ev *evaluation, assignment []int) float64 {
	cost := 0.0
	for i, s := range assignment {
		if s < 0 {
			cost += ev.penalties[i]
			continue
		}
		cost += ev.quotes[s][i].product.Price * float64(ev.items[i].Quantity)
	}
	return cost
}

// optimalAssignment tries every candidate combination of up to maxStores
// stores and keeps the cheapest. Ties prefer fewer stores. Returns
// found=false when the context expires before the search finishes.
func (p *Planner) optimalAssignment(ctx context.Context, ev *evaluation, candidates []int, maxStores int) ([]int, bool) {
	var (
		best     []int
		bestCost float64
		found    bool
	)

	var walk func(start int, combo []int) bool
	walk = func(start int, combo []int) bool {
		if ctx.Err() != nil {
			return false
		}
		if len(combo) > 0 {
			assignment := assignWithin(ev, combo)
			cost := assignmentCost(ev, assignment)
			if !found || cost < bestCost {
				best = assignment
				bestCost = cost
				found = true
			}
		}
		if len(combo) == maxStores {
			return true
		}
		for c := start; c < len(candidates); c++ {
			if !walk(c+1, append(combo, candidates[c])) {
				return false
			}
		}
		return true
	}

	if !walk(0, make([]int, 0, maxStores)) {
		return nil, false
	}
	return best, found
}

// assignWithin puts each item at its cheapest carrying store in combo,
// or leaves it unassigned.
func assignWithin(ev *evaluation, combo []int) []int {
	assignment := make([]int, len(ev.items))
	for i := range ev.items {
		assignment[i] = -1
		bestPrice := 0.0
		for _, s := range combo {
			q := ev.quotes[s][i]
			if !q.ok {
				continue
			}
			if assignment[i] < 0 || q.product.Price < bestPrice {
				assignment[i] = s
				bestPrice = q.product.Price
			}
		}
	}
	return assignment
}

// greedyAssignment is assignWithin over the whole candidate pool.
func greedyAssignment(ev *evaluation, candidates []int) []int {
	return assignWithin(ev, candidates)
}

// trimToMaxStores collapses a greedy assignment down to the store cap by
// repeatedly dissolving the smallest visit and moving its items to the
// remaining stores, or to unmatched when nobody else carries them.
func (p *Planner) trimToMaxStores(ev *evaluation, assignment []int, maxStores int) {
	for {
		subtotals := make(map[int]float64)
		for i, s := range assignment {
			if s >= 0 {
				subtotals[s] += ev.quotes[s][i].product.Price * float64(ev.items[i].Quantity)
			}
		}
		if len(subtotals) <= maxStores {
			return
		}

		smallest, smallestSub := -1, 0.0
		for s, sub := range subtotals {
			if smallest < 0 || sub < smallestSub ||
				(sub == smallestSub && ev.snap.Stores[s].Key < ev.snap.Stores[smallest].Key) {
				smallest, smallestSub = s, sub
			}
		}

		remaining := make([]int, 0, len(subtotals)-1)
		for s := range subtotals {
			if s != smallest {
				remaining = append(remaining, s)
			}
		}
		for i, s := range assignment {
			if s != smallest {
				continue
			}
			assignment[i] = -1
			bestPrice := 0.0
			for _, r := range remaining {
				q := ev.quotes[r][i]
				if !q.ok {
					continue
				}
				if assignment[i] < 0 || q.product.Price < bestPrice {
					assignment[i] = r
					bestPrice = q.product.Price
				}
			}
		}
	}
}

// buildSplit renders an assignment as a plan. Visits come back largest
// haul first.
func (p *Planner) buildSplit(ev *evaluation, assignment []int, algo string) *SplitPlan {
	plan := &SplitPlan{
		Visits:    []StoreVisit{},
		Currency:  ev.snap.Currency,
		Algorithm: algo,
	}

	byStore := make(map[int]*StoreVisit)
	covered := 0
	for i, s := range assignment {
		item := ev.items[i]
		if s < 0 {
			plan.Unmatched = append(plan.Unmatched, MissingItem{
				ItemName: item.Name,
				Penalty:  ev.penalties[i],
			})
			continue
		}
		covered++
		visit, ok := byStore[s]
		if !ok {
			visit = &StoreVisit{
				StoreName: ev.snap.Stores[s].Name,
				StoreKey:  ev.snap.Stores[s].Key,
			}
			byStore[s] = visit
		}
		q := ev.quotes[s][i]
		line := q.product.Price * float64(item.Quantity)
		visit.Quotes = append(visit.Quotes, Quote{
			ItemName:    item.Name,
			ProductName: q.product.Display,
			Quantity:    item.Quantity,
			UnitPrice:   q.product.Price,
			LineTotal:   line,
			Score:       q.score,
		})
		visit.Subtotal += line
		plan.Total += line
	}

	for _, visit := range byStore {
		plan.Visits = append(plan.Visits, *visit)
	}
	sort.Slice(plan.Visits, func(i, j int) bool {
		if plan.Visits[i].Subtotal != plan.Visits[j].Subtotal {
			return plan.Visits[i].Subtotal > plan.Visits[j].Subtotal
		}
		return plan.Visits[i].StoreKey < plan.Visits[j].StoreKey
	})

	plan.Coverage = float64(covered) / float64(len(ev.items))
	return plan
}

// allUnmatched marks every list item unmatched, for the empty-catalog
// answer.
func allUnmatched(ev *evaluation) []MissingItem {
	out := make([]MissingItem, len(ev.items))
	for i, item := range ev.items {
		out[i] = MissingItem{ItemName: item.Name, Penalty: ev.penalties[i]}
	}
	return out
}
