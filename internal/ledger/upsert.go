package ledger

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/goshopper/price-engine/internal/matching"
	"github.com/goshopper/price-engine/internal/pkg/cuid2"
)

// DefaultCandidateLimit caps how many distinct recent products are
// fetched as match candidates for one incoming item.
const DefaultCandidateLimit = 500

// priceTolerance is the absolute price delta under which two
// observations count as the same price.
const priceTolerance = 0.01

// Matcher resolves an incoming item name against the products already
// seen at one store. Cheap indexed lookups run first; the full candidate
// scan only happens for names the store has never recorded verbatim.
type Matcher struct {
	store          Store
	thresholds     matching.Thresholds
	candidateLimit int
	logger         *slog.Logger
}

// NewMatcher builds a store-scoped matcher. A zero candidateLimit falls
// back to DefaultCandidateLimit.
func NewMatcher(store Store, th matching.Thresholds, candidateLimit int, logger *slog.Logger) *Matcher {
	if candidateLimit <= 0 {
		candidateLimit = DefaultCandidateLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{store: store, thresholds: th, candidateLimit: candidateLimit, logger: logger}
}

// Match returns the classification for rawName at the given store and,
// when a product matched, its most recent price point. A nil prior with
// Matched=true never happens; MatchNone always carries a nil prior.
func (m *Matcher) Match(ctx context.Context, storeKey, rawName string) (matching.Result, *PricePoint, error) {
	normalized := matching.Normalize(rawName)

	// Fast path: the store has recorded this exact normalized name.
	prior, err := m.store.LatestByProduct(ctx, storeKey, normalized)
	if err == nil {
		return matching.Result{
			Matched:     true,
			Type:        matching.MatchExact,
			Confidence:  1.0,
			MatchedName: prior.ProductNameNormalized,
		}, prior, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return matching.Result{Type: matching.MatchNone}, nil, err
	}

	// Shorthand expansion: "pdt 1kg" hits a prior "pomme de terre 1kg".
	if expanded := matching.ExpandAbbreviations(rawName); expanded != normalized {
		prior, err = m.store.LatestByProduct(ctx, storeKey, expanded)
		if err == nil {
			return matching.Result{
				Matched:     true,
				Type:        matching.MatchFuzzy,
				Confidence:  matching.AbbreviationConfidence,
				MatchedName: prior.ProductNameNormalized,
			}, prior, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return matching.Result{Type: matching.MatchNone}, nil, err
		}
	}

	candidates, err := m.store.RecentDistinctProducts(ctx, storeKey, m.candidateLimit)
	if err != nil {
		// A failed candidate fetch degrades to no-match so ingestion can
		// continue; the item lands as a new product.
		m.logger.Warn("candidate fetch failed, treating as no match",
			"store", storeKey, "error", err)
		return matching.Result{Type: matching.MatchNone, BestIndex: -1}, nil, nil
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.ProductNameRaw
	}

	res := matching.ClassifyAgainst(rawName, names, m.thresholds)
	if !res.Matched {
		return res, nil, nil
	}

	matched := candidates[res.BestIndex]
	res.MatchedName = matched.ProductNameNormalized
	return res, &matched, nil
}

// Upserter appends receipt items to the price ledger.
type Upserter struct {
	store   Store
	matcher *Matcher
	logger  *slog.Logger
	now     func() time.Time
}

// NewUpserter wires an upserter over a store and its matcher.
func NewUpserter(store Store, matcher *Matcher, logger *slog.Logger) *Upserter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Upserter{store: store, matcher: matcher, logger: logger, now: time.Now}
}

// Upsert applies one receipt item. Decision table:
//   - no prior product matched: insert as a new product (created)
//   - matched and |price - prior.Price| <= 0.01: no row (skipped)
//   - matched and the price moved: insert linked to the prior (updated)
//
// Validation failures and storage errors report failed and never insert.
func (u *Upserter) Upsert(ctx context.Context, rc ReceiptContext, item Item) UpsertResult {
	res := UpsertResult{Name: item.Name}

	normalized := matching.Normalize(item.Name)
	if normalized == "" {
		res.Action = ActionFailed
		res.Error = "empty product name after normalization"
		return res
	}
	if math.IsNaN(item.UnitPrice) || math.IsInf(item.UnitPrice, 0) || item.UnitPrice < 0 {
		res.Action = ActionFailed
		res.Error = "invalid unit price"
		return res
	}

	quantity := item.Quantity
	if quantity <= 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		quantity = 1
	}

	storeKey := rc.StoreNameNormalized
	if storeKey == "" {
		storeKey = matching.Normalize(rc.StoreName)
	}

	match, prior, err := u.matcher.Match(ctx, storeKey, item.Name)
	if err != nil {
		res.Action = ActionFailed
		res.Error = "match lookup failed: " + err.Error()
		return res
	}

	res.MatchType = string(match.Type)
	res.Confidence = match.Confidence

	pp := PricePoint{
		ID:                    cuid2.GeneratePrefixedId("pp", cuid2.PrefixedIdOptions{}),
		ProductNameRaw:        item.Name,
		ProductNameNormalized: normalized,
		StoreName:             rc.StoreName,
		StoreNameNormalized:   storeKey,
		Price:                 item.UnitPrice,
		Currency:              rc.Currency,
		Unit:                  item.Unit,
		Quantity:              quantity,
		PricePerUnit:          item.UnitPrice / quantity,
		RecordedAt:            u.now(),
		SourceReceiptID:       rc.ReceiptID,
		MatchType:             string(match.Type),
		MatchConfidence:       match.Confidence,
	}

	if prior != nil {
		res.MatchedName = match.MatchedName

		if math.Abs(item.UnitPrice-prior.Price) <= priceTolerance {
			res.Action = ActionSkipped
			res.PricePointID = prior.ID
			return res
		}

		// Keep the matched product's canonical name so its history stays
		// under one key despite spelling drift on later receipts.
		pp.ProductNameNormalized = prior.ProductNameNormalized
		previous := prior.Price
		pp.PreviousPrice = &previous

		if err := u.store.Insert(ctx, pp); err != nil {
			res.Action = ActionFailed
			res.Error = "insert failed: " + err.Error()
			return res
		}
		res.Action = ActionUpdated
		res.PricePointID = pp.ID
		return res
	}

	// First observation of a new product. The stored point records it as
	// an exact observation; the no-match diagnostics stay on the result.
	pp.MatchType = string(matching.MatchExact)
	pp.MatchConfidence = 1.0

	if err := u.store.Insert(ctx, pp); err != nil {
		res.Action = ActionFailed
		res.Error = "insert failed: " + err.Error()
		return res
	}
	res.Action = ActionCreated
	res.PricePointID = pp.ID
	return res
}

// UpsertBatch applies one receipt's items strictly in order. Later items
// must see earlier items' effects, so there is no concurrency here; a
// failed item is logged and the batch continues.
func (u *Upserter) UpsertBatch(ctx context.Context, rc ReceiptContext, items []Item) BatchSummary {
	summary := BatchSummary{Results: make([]UpsertResult, 0, len(items))}

	for _, item := range items {
		r := u.Upsert(ctx, rc, item)
		summary.Results = append(summary.Results, r)

		switch r.Action {
		case ActionCreated:
			summary.Created++
		case ActionUpdated:
			summary.Updated++
		case ActionSkipped:
			summary.Skipped++
		case ActionFailed:
			summary.Failed++
			u.logger.Warn("item upsert failed",
				"receipt", rc.ReceiptID, "item", item.Name, "error", r.Error)
		}
	}

	u.logger.Info("receipt batch applied",
		"receipt", rc.ReceiptID,
		"store", rc.StoreName,
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"failed", summary.Failed)

	return summary
}
