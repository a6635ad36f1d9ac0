package ledger

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goshopper/price-engine/internal/matching"
)

func newTestUpserter(store Store) *Upserter {
	m := NewMatcher(store, matching.DefaultThresholds(), 0, nil)
	return NewUpserter(store, m, nil)
}

func testReceipt() ReceiptContext {
	return ReceiptContext{
		ReceiptID:           "rcpt_test",
		StoreName:           "Kin Marché",
		StoreNameNormalized: "kin marche",
		Currency:            "CDF",
	}
}

func TestUpsertCreatesNewProduct(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := newTestUpserter(s)

	res := u.Upsert(ctx, testReceipt(), Item{Name: "Riz parfumé 5kg", UnitPrice: 10000, Quantity: 2})

	assert.Equal(t, ActionCreated, res.Action)
	assert.True(t, strings.HasPrefix(res.PricePointID, "pp"), "id %q should carry the pp prefix", res.PricePointID)
	assert.Equal(t, string(matching.MatchNone), res.MatchType)

	stored, err := s.LatestByProduct(ctx, "kin marche", "riz parfume 5kg")
	require.NoError(t, err)
	assert.Equal(t, "Riz parfumé 5kg", stored.ProductNameRaw)
	assert.Equal(t, 10000.0, stored.Price)
	assert.Equal(t, 2.0, stored.Quantity)
	assert.Equal(t, 5000.0, stored.PricePerUnit)
	assert.Equal(t, "CDF", stored.Currency)
	assert.Nil(t, stored.PreviousPrice)

	// The first observation of a product is stored as an exact match even
	// though the lookup itself found nothing.
	assert.Equal(t, string(matching.MatchExact), stored.MatchType)
	assert.Equal(t, 1.0, stored.MatchConfidence)
}

func TestUpsertSkipsUnchangedPrice(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := newTestUpserter(s)
	rc := testReceipt()

	first := u.Upsert(ctx, rc, Item{Name: "Sucre 1kg", UnitPrice: 1500})
	require.Equal(t, ActionCreated, first.Action)

	second := u.Upsert(ctx, rc, Item{Name: "Sucre 1kg", UnitPrice: 1500})
	assert.Equal(t, ActionSkipped, second.Action)
	assert.Equal(t, first.PricePointID, second.PricePointID, "skip reports the existing point's id")
	assert.Equal(t, string(matching.MatchExact), second.MatchType)
	assert.Equal(t, 1, s.Len(), "skip must not insert a row")

	// Within tolerance still counts as unchanged.
	third := u.Upsert(ctx, rc, Item{Name: "Sucre 1kg", UnitPrice: 1500.005})
	assert.Equal(t, ActionSkipped, third.Action)
	assert.Equal(t, 1, s.Len())
}

func TestUpsertRecordsPriceChange(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := newTestUpserter(s)
	rc := testReceipt()

	first := u.Upsert(ctx, rc, Item{Name: "Yaourt Danone 500g", UnitPrice: 2000})
	require.Equal(t, ActionCreated, first.Action)

	// Misspelled brand and detached unit on the second receipt.
	second := u.Upsert(ctx, rc, Item{Name: "yaourt danon 500 g", UnitPrice: 2500})
	assert.Equal(t, ActionUpdated, second.Action)
	assert.Equal(t, string(matching.MatchFuzzy), second.MatchType)
	assert.Equal(t, "yaourt danone 500g", second.MatchedName)

	// The new point lands under the matched product's canonical name.
	stored, err := s.LatestByProduct(ctx, "kin marche", "yaourt danone 500g")
	require.NoError(t, err)
	assert.Equal(t, 2500.0, stored.Price)
	require.NotNil(t, stored.PreviousPrice)
	assert.Equal(t, 2000.0, *stored.PreviousPrice)

	history, err := s.History(ctx, "kin marche", "yaourt danone 500g", 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestUpsertAbbreviationHitsExistingProduct(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := newTestUpserter(s)
	rc := testReceipt()

	first := u.Upsert(ctx, rc, Item{Name: "Pomme de terre 1kg", UnitPrice: 3000})
	require.Equal(t, ActionCreated, first.Action)

	second := u.Upsert(ctx, rc, Item{Name: "pdt 1kg", UnitPrice: 3000})
	assert.Equal(t, ActionSkipped, second.Action)
	assert.Equal(t, string(matching.MatchFuzzy), second.MatchType)
	assert.Equal(t, matching.AbbreviationConfidence, second.Confidence)
}

func TestUpsertValidation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := newTestUpserter(s)
	rc := testReceipt()

	tests := []struct {
		name string
		item Item
	}{
		{"Empty name", Item{Name: "", UnitPrice: 100}},
		{"Symbols only name", Item{Name: "***", UnitPrice: 100}},
		{"Negative price", Item{Name: "Sel 500g", UnitPrice: -5}},
		{"NaN price", Item{Name: "Sel 500g", UnitPrice: math.NaN()}},
		{"Infinite price", Item{Name: "Sel 500g", UnitPrice: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := u.Upsert(ctx, rc, tt.item)
			assert.Equal(t, ActionFailed, res.Action)
			assert.NotEmpty(t, res.Error)
		})
	}
	assert.Equal(t, 0, s.Len())
}

func TestUpsertDefaultsQuantity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := newTestUpserter(s)

	res := u.Upsert(ctx, testReceipt(), Item{Name: "Sel 500g", UnitPrice: 700})
	require.Equal(t, ActionCreated, res.Action)

	stored, err := s.LatestByProduct(ctx, "kin marche", "sel 500g")
	require.NoError(t, err)
	assert.Equal(t, 1.0, stored.Quantity)
	assert.Equal(t, 700.0, stored.PricePerUnit)
}

func TestUpsertBatchSequential(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := newTestUpserter(s)

	items := []Item{
		{Name: "Riz parfumé 5kg", UnitPrice: 10000},
		{Name: "Riz parfumé 5kg", UnitPrice: 10000}, // duplicate line, same receipt
		{Name: "Riz parfumé 5kg", UnitPrice: 12000}, // price moved
		{Name: "", UnitPrice: 100},                  // invalid
		{Name: "Sucre 1kg", UnitPrice: 1500},
	}

	summary := u.UpsertBatch(ctx, testReceipt(), items)

	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Results, len(items))

	// Later items saw the effect of earlier ones.
	assert.Equal(t, ActionCreated, summary.Results[0].Action)
	assert.Equal(t, ActionSkipped, summary.Results[1].Action)
	assert.Equal(t, ActionUpdated, summary.Results[2].Action)
	assert.Equal(t, ActionFailed, summary.Results[3].Action)
	assert.Equal(t, ActionCreated, summary.Results[4].Action)
}

func TestMatcherStoreScoped(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := newTestUpserter(s)

	otherStore := ReceiptContext{
		ReceiptID:           "rcpt_other",
		StoreName:           "Shoprite",
		StoreNameNormalized: "shoprite",
		Currency:            "CDF",
	}
	first := u.Upsert(ctx, otherStore, Item{Name: "Sucre 1kg", UnitPrice: 1400})
	require.Equal(t, ActionCreated, first.Action)

	// Same product at a different store is a fresh history, not a match.
	second := u.Upsert(ctx, testReceipt(), Item{Name: "Sucre 1kg", UnitPrice: 1500})
	assert.Equal(t, ActionCreated, second.Action)
	assert.Equal(t, 2, s.Len())
}
