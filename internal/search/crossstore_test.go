package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/matching"
)

func seedPoint(s *ledger.MemoryStore, id, store, storeKey, name string, price float64) {
	_ = s.Insert(context.Background(), ledger.PricePoint{
		ID:                    id,
		ProductNameRaw:        name,
		ProductNameNormalized: matching.Normalize(name),
		StoreName:             store,
		StoreNameNormalized:   storeKey,
		Price:                 price,
		Currency:              "CDF",
		Quantity:              1,
		PricePerUnit:          price,
		RecordedAt:            time.Now(),
	})
}

func TestCompareAcrossStores(t *testing.T) {
	s := ledger.NewMemoryStore()
	seedPoint(s, "pp1", "Kin Marché", "kin marche", "Riz parfumé 5kg", 10000)
	seedPoint(s, "pp2", "Shoprite", "shoprite", "Riz parfumé 5kg", 9000)
	seedPoint(s, "pp3", "Peloustore", "peloustore", "riz parfume 5 kg", 11000)
	seedPoint(s, "pp4", "Shoprite", "shoprite", "Savon Omo 500g", 2000)

	searcher := NewSearcher(s, 0, 0, nil)
	cmp := searcher.CompareAcrossStores(context.Background(), "Riz parfumé 5kg", "kin marche", 10000)

	require.Len(t, cmp.Offers, 2, "one offer per other store, unrelated products excluded")
	assert.Equal(t, "Shoprite", cmp.Offers[0].StoreName, "ascending by price")
	assert.Equal(t, 9000.0, cmp.Offers[0].Price)
	assert.Equal(t, "Peloustore", cmp.Offers[1].StoreName)
	assert.InDelta(t, 1000.0, cmp.PotentialSavings, 1e-9)

	for _, o := range cmp.Offers {
		assert.GreaterOrEqual(t, o.Score, matching.DefaultThresholds().Semantic)
		assert.NotEqual(t, "Kin Marché", o.StoreName, "origin store excluded")
	}
}

func TestCompareAcrossStoresBestOfferPerStore(t *testing.T) {
	s := ledger.NewMemoryStore()
	seedPoint(s, "pp1", "Shoprite", "shoprite", "riz parfume 25kg", 40000)
	seedPoint(s, "pp2", "Shoprite", "shoprite", "Riz parfumé 5kg", 9000)

	searcher := NewSearcher(s, 0, 0, nil)
	cmp := searcher.CompareAcrossStores(context.Background(), "Riz parfumé 5kg", "kin marche", 0)

	require.Len(t, cmp.Offers, 1)
	assert.Equal(t, "Riz parfumé 5kg", cmp.Offers[0].ProductName, "highest scoring product represents the store")
	assert.Zero(t, cmp.PotentialSavings, "no reference price, no savings")
}

func TestCompareAcrossStoresNoCheaperOffer(t *testing.T) {
	s := ledger.NewMemoryStore()
	seedPoint(s, "pp1", "Shoprite", "shoprite", "Riz parfumé 5kg", 12000)

	searcher := NewSearcher(s, 0, 0, nil)
	cmp := searcher.CompareAcrossStores(context.Background(), "Riz parfumé 5kg", "kin marche", 10000)

	require.Len(t, cmp.Offers, 1)
	assert.Zero(t, cmp.PotentialSavings)
}

func TestCompareAcrossStoresEmptyLedger(t *testing.T) {
	searcher := NewSearcher(ledger.NewMemoryStore(), 0, 0, nil)
	cmp := searcher.CompareAcrossStores(context.Background(), "Riz parfumé 5kg", "kin marche", 10000)

	assert.Empty(t, cmp.Offers)
	assert.Zero(t, cmp.PotentialSavings)
}

func TestSearchProducts(t *testing.T) {
	s := ledger.NewMemoryStore()
	seedPoint(s, "pp1", "Kin Marché", "kin marche", "Riz parfumé 5kg", 10000)
	seedPoint(s, "pp2", "Shoprite", "shoprite", "Riz parfumé 25kg", 40000)
	seedPoint(s, "pp3", "Shoprite", "shoprite", "Savon Omo 500g", 2000)

	searcher := NewSearcher(s, 0, 0, nil)
	hits := searcher.SearchProducts(context.Background(), "riz parfume", 10)

	require.Len(t, hits, 2, "soap must not match a rice query")
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i].Score, hits[i-1].Score, "sorted by score descending")
	}
}

func TestSearchProductsLimit(t *testing.T) {
	s := ledger.NewMemoryStore()
	seedPoint(s, "pp1", "Kin Marché", "kin marche", "Riz parfumé 5kg", 10000)
	seedPoint(s, "pp2", "Shoprite", "shoprite", "Riz parfumé 5kg", 9000)
	seedPoint(s, "pp3", "Peloustore", "peloustore", "Riz parfumé 25kg", 40000)

	searcher := NewSearcher(s, 0, 0, nil)
	hits := searcher.SearchProducts(context.Background(), "riz parfume", 2)

	assert.Len(t, hits, 2)
}

func TestSearchProductsDedupesByStoreAndProduct(t *testing.T) {
	s := ledger.NewMemoryStore()
	seedPoint(s, "pp1", "Shoprite", "shoprite", "Riz parfumé 5kg", 9000)
	seedPoint(s, "pp2", "Shoprite", "shoprite", "Riz parfumé 5kg", 9500)

	searcher := NewSearcher(s, 0, 0, nil)
	hits := searcher.SearchProducts(context.Background(), "riz parfume 5kg", 10)

	require.Len(t, hits, 1, "same product at the same store appears once")
	assert.Equal(t, 9500.0, hits[0].Price, "most recent observation wins")
}
