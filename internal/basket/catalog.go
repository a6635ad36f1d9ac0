package basket

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/matching"
)

// catalogProduct is one product carried by one store, with its
// fingerprint precomputed so planning never re-normalizes names.
type catalogProduct struct {
	Normalized  string
	Display     string
	Price       float64
	Fingerprint matching.Fingerprint
}

// storeCatalog is everything one store currently sells, per the ledger.
type storeCatalog struct {
	Key      string
	Name     string
	Products []catalogProduct
}

// snapshot is an immutable view of the ledger's recent window, shared by
// all in-flight plans. Replaced wholesale on refresh, never mutated.
type snapshot struct {
	Stores   []*storeCatalog
	Averages map[string]float64 // market average price per normalized name
	Currency string
	BuiltAt  time.Time
	Points   int
}

// Catalog maintains a TTL-bounded snapshot of the ledger for planning.
// Concurrent callers during a rebuild share one ledger scan.
type Catalog struct {
	store  ledger.Store
	ttl    time.Duration
	window int
	logger *slog.Logger

	current atomic.Value // *snapshot
	rebuild sync.Mutex
}

// NewCatalog wires a catalog over the given ledger store.
func NewCatalog(store ledger.Store, cfg Config, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		store:  store,
		ttl:    cfg.CatalogTTL,
		window: cfg.Window,
		logger: logger,
	}
}

// Snapshot returns the current snapshot, rebuilding it from the ledger
// when stale. A stale snapshot is only replaced, never served partially.
func (c *Catalog) Snapshot(ctx context.Context) (*snapshot, error) {
	if snap := c.load(); snap != nil && time.Since(snap.BuiltAt) < c.ttl {
		return snap, nil
	}

	c.rebuild.Lock()
	defer c.rebuild.Unlock()

	// Another caller may have rebuilt while this one waited on the lock.
	if snap := c.load(); snap != nil && time.Since(snap.BuiltAt) < c.ttl {
		return snap, nil
	}

	snap, err := c.build(ctx)
	if err != nil {
		// Serve the stale snapshot rather than failing the plan outright.
		if stale := c.load(); stale != nil {
			c.logger.Warn("catalog rebuild failed, serving stale snapshot",
				slog.String("error", err.Error()),
				slog.Time("built_at", stale.BuiltAt))
			return stale, nil
		}
		return nil, err
	}
	c.current.Store(snap)
	return snap, nil
}

// Invalidate drops the cached snapshot so the next plan rebuilds.
func (c *Catalog) Invalidate() {
	c.current.Store((*snapshot)(nil))
}

func (c *Catalog) load() *snapshot {
	snap, _ := c.current.Load().(*snapshot)
	return snap
}

// build scans the recent window and keeps the newest point per store and
// product. The window is newest first, so first occurrence wins.
func (c *Catalog) build(ctx context.Context) (*snapshot, error) {
	start := time.Now()
	points, err := c.store.RecentWindow(ctx, c.window)
	if err != nil {
		return nil, fmt.Errorf("loading recent window: %w", err)
	}

	type productKey struct {
		store   string
		product string
	}
	seen := make(map[productKey]bool, len(points))
	byStore := make(map[string]*storeCatalog)
	sums := make(map[string]float64)
	counts := make(map[string]int)
	currency := ""

	for _, pp := range points {
		key := productKey{store: pp.StoreNameNormalized, product: pp.ProductNameNormalized}
		if seen[key] {
			continue
		}
		seen[key] = true

		sc, ok := byStore[pp.StoreNameNormalized]
		if !ok {
			sc = &storeCatalog{Key: pp.StoreNameNormalized, Name: pp.StoreName}
			byStore[pp.StoreNameNormalized] = sc
		}
		sc.Products = append(sc.Products, catalogProduct{
			Normalized:  pp.ProductNameNormalized,
			Display:     pp.ProductNameRaw,
			Price:       pp.Price,
			Fingerprint: matching.ComputeFingerprint(pp.ProductNameRaw),
		})
		sums[pp.ProductNameNormalized] += pp.Price
		counts[pp.ProductNameNormalized]++
		if currency == "" {
			currency = pp.Currency
		}
	}

	averages := make(map[string]float64, len(sums))
	for name, sum := range sums {
		averages[name] = sum / float64(counts[name])
	}

	stores := make([]*storeCatalog, 0, len(byStore))
	for _, sc := range byStore {
		stores = append(stores, sc)
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].Key < stores[j].Key })

	snap := &snapshot{
		Stores:   stores,
		Averages: averages,
		Currency: currency,
		BuiltAt:  time.Now(),
		Points:   len(points),
	}
	c.logger.Debug("catalog snapshot built",
		slog.Int("stores", len(stores)),
		slog.Int("points", len(points)),
		slog.Duration("elapsed", time.Since(start)))
	return snap, nil
}
