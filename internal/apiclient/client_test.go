package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goshopper/price-engine/internal/basket"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 1000
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 5 * time.Millisecond
	return cfg
}

func TestCompareSendsAPIKey(t *testing.T) {
	var gotKey, gotProduct string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Internal-API-Key")
		gotProduct = r.URL.Query().Get("product")
		json.NewEncoder(w).Encode(map[string]any{
			"query":  gotProduct,
			"offers": []map[string]any{{"storeName": "Shoprite", "price": 11000.0, "currency": "CDF"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", testConfig())
	cmp, err := c.Compare(context.Background(), "riz parfumé 5kg", "", 0)
	require.NoError(t, err)

	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "riz parfumé 5kg", gotProduct)
	require.Len(t, cmp.Offers, 1)
	assert.Equal(t, "Shoprite", cmp.Offers[0].StoreName)
}

func TestRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(IngestResult{ReceiptID: "rc_test", Created: 2})
	}))
	defer srv.Close()

	c := New(srv.URL, "", testConfig())
	res, err := c.Ingest(context.Background(), IngestRequest{
		StoreName: "Shoprite",
		Items:     []IngestItem{{Name: "Sel 500g", UnitPrice: 1200}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, res.Created)
}

func TestBadRequestIsNotRetried(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "storeName is required"})
	}))
	defer srv.Close()

	c := New(srv.URL, "", testConfig())
	_, err := c.Ingest(context.Background(), IngestRequest{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "storeName")
	assert.Equal(t, 1, attempts)
}

func TestRetriesExhausted(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.MaxRetries = 2
	c := New(srv.URL, "", cfg)
	_, err := c.SearchProducts(context.Background(), "riz", 10)
	require.Error(t, err)

	var retryErr *RetryError
	require.ErrorAs(t, err, &retryErr)
	assert.Equal(t, 3, retryErr.Attempts)
	assert.Equal(t, http.StatusServiceUnavailable, retryErr.LastStatus)
	assert.Equal(t, 3, attempts)
}

func TestSplitBasketRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/basket/split", r.URL.Path)
		var req basket.PlanRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Items, 2)
		json.NewEncoder(w).Encode(basket.SplitPlan{
			Total:     11900,
			Coverage:  1,
			Currency:  "CDF",
			Algorithm: "optimal",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "", testConfig())
	plan, err := c.SplitBasket(context.Background(), basket.PlanRequest{Items: []basket.ListItem{
		{Name: "riz parfumé 5kg"},
		{Name: "sel 500g"},
	}})
	require.NoError(t, err)
	assert.InDelta(t, 11900, plan.Total, 0.01)
	assert.Equal(t, "optimal", plan.Algorithm)
}

func TestRetryAfterHeaderRespected(t *testing.T) {
	c := New("http://example.invalid", "", testConfig())

	d := c.backoffDelay(0, "1")
	assert.GreaterOrEqual(t, d, time.Second)
	assert.Less(t, d, 1300*time.Millisecond)

	d = c.backoffDelay(2, "")
	assert.GreaterOrEqual(t, d, 4*time.Millisecond)
}
