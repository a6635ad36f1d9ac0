// Package ledger persists immutable price observations and decides, per
// ingested receipt item, whether it duplicates, updates, or creates a
// product's price history.
package ledger

import (
	"context"
	"errors"
)

// ErrNotFound is returned by point lookups when no price point exists for
// the requested store and product.
var ErrNotFound = errors.New("price point not found")

// Store is the document-store abstraction the engine runs on. It only
// needs point lookup by store+normalized name, recency-ordered windows,
// and append-only insert; no other schema knowledge is assumed.
type Store interface {
	// Insert appends one price point. Points are never updated in place.
	Insert(ctx context.Context, pp PricePoint) error

	// LatestByProduct returns the most recent price point for the exact
	// normalized product name at a store, or ErrNotFound.
	LatestByProduct(ctx context.Context, storeKey, normalizedName string) (*PricePoint, error)

	// RecentDistinctProducts returns up to limit distinct products seen
	// at a store, one (most recent) price point per normalized name,
	// newest first.
	RecentDistinctProducts(ctx context.Context, storeKey string, limit int) ([]PricePoint, error)

	// RecentWindow returns up to limit most recent price points across
	// all stores, newest first.
	RecentWindow(ctx context.Context, limit int) ([]PricePoint, error)

	// History returns the chronological price points (newest first) for
	// one normalized product name at a store.
	History(ctx context.Context, storeKey, normalizedName string, limit int) ([]PricePoint, error)
}
