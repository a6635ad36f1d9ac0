package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/goshopper/price-engine/internal/handlers"
	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/matching"
	"github.com/goshopper/price-engine/internal/search"
)

// TestE2EReceiptFlow walks a receipt through the full HTTP surface against
// a real postgres backend: ingest, duplicate ingest, price change with a
// misspelled name, then history, comparison, search, and export.
func TestE2EReceiptFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	defer testcontainers.TerminateContainer(container)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	store := ledger.NewPostgresStore(pool)
	require.NoError(t, store.EnsureSchema(ctx))

	matcher := ledger.NewMatcher(store, matching.DefaultThresholds(), 0, nil)
	handlers.Init(store,
		ledger.NewUpserter(store, matcher, nil),
		search.NewSearcher(store, 0, 0, nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/internal/receipts/ingest", handlers.IngestReceipt)
	router.GET("/internal/prices/history", handlers.GetPriceHistory)
	router.GET("/internal/prices/compare", handlers.ComparePrices)
	router.GET("/internal/products/search", handlers.SearchProducts)
	router.GET("/internal/prices/export", handlers.ExportPrices)

	// First receipt seeds two products at Kin Marché.
	resp := ingest(t, router, handlers.IngestRequest{
		StoreName: "Kin Marché",
		Items: []handlers.IngestItem{
			{Name: "Riz parfumé 5kg", UnitPrice: 10000},
			{Name: "Yaourt Danone 500g", UnitPrice: 2000},
		},
	})
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, 0, resp.Failed)

	// Second receipt: an unchanged price is skipped, a changed price under
	// a misspelled name is matched fuzzily and appended under the
	// canonical product name.
	resp = ingest(t, router, handlers.IngestRequest{
		StoreName: "Kin Marché",
		Items: []handlers.IngestItem{
			{Name: "Yaourt Danone 500g", UnitPrice: 2000},
			{Name: "yaourt danon 500 g", UnitPrice: 2500},
		},
	})
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, 1, resp.Updated)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "yaourt danone 500g", resp.Results[1].MatchedName)
	assert.Equal(t, "fuzzy", resp.Results[1].MatchType)

	// A cheaper offer at another store.
	resp = ingest(t, router, handlers.IngestRequest{
		StoreName: "Shoprite",
		Items: []handlers.IngestItem{
			{Name: "Riz parfumé 5kg", UnitPrice: 9000},
		},
	})
	assert.Equal(t, 1, resp.Created)

	t.Run("history shows the price change", func(t *testing.T) {
		w := get(t, router, "/internal/prices/history?store=Kin+March%C3%A9&product=yaourt+danone+500g")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var hist handlers.HistoryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hist))
		require.Len(t, hist.Points, 2)
		assert.Equal(t, 2500.0, hist.Points[0].Price)
		require.NotNil(t, hist.Points[0].PreviousPrice)
		assert.Equal(t, 2000.0, *hist.Points[0].PreviousPrice)
		assert.Equal(t, 2000.0, hist.Points[1].Price)
	})

	t.Run("comparison finds the cheaper store", func(t *testing.T) {
		w := get(t, router, "/internal/prices/compare?product=Riz+parfum%C3%A9+5kg&store=Kin+March%C3%A9&price=10000")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var cmp search.Comparison
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cmp))
		require.NotEmpty(t, cmp.Offers)
		assert.Equal(t, "Shoprite", cmp.Offers[0].StoreName)
		assert.Equal(t, 9000.0, cmp.Offers[0].Price)
		assert.Equal(t, 1000.0, cmp.PotentialSavings)
	})

	t.Run("search finds the product across stores", func(t *testing.T) {
		w := get(t, router, "/internal/products/search?q=riz")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res handlers.SearchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.NotEmpty(t, res.Hits)
		assert.Equal(t, "Riz parfumé 5kg", res.Hits[0].ProductName)
	})

	t.Run("export streams a workbook", func(t *testing.T) {
		w := get(t, router, "/internal/prices/export")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			w.Header().Get("Content-Type"))
		assert.NotEmpty(t, w.Body.Bytes())
	})
}

func ingest(t *testing.T, router *gin.Engine, body handlers.IngestRequest) handlers.IngestResponse {
	t.Helper()

	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/internal/receipts/ingest", bytes.NewBuffer(jsonBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp handlers.IngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func get(t *testing.T, router *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest("GET", url, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
