package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/matching"
	"github.com/goshopper/price-engine/internal/search"
)

func setupRouter(t *testing.T) (*gin.Engine, *ledger.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := ledger.NewMemoryStore()
	matcher := ledger.NewMatcher(mem, matching.DefaultThresholds(), 0, nil)
	Init(mem, ledger.NewUpserter(mem, matcher, nil), search.NewSearcher(mem, 0, 0, nil))

	router := gin.New()
	router.POST("/internal/receipts/ingest", IngestReceipt)
	router.GET("/internal/prices/history", GetPriceHistory)
	router.GET("/internal/prices/compare", ComparePrices)
	router.GET("/internal/products/search", SearchProducts)
	router.GET("/internal/prices/export", ExportPrices)
	return router, mem
}

func postIngest(t *testing.T, router *gin.Engine, body IngestRequest) IngestResponse {
	t.Helper()

	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/internal/receipts/ingest", bytes.NewBuffer(jsonBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp IngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestIngestReceipt(t *testing.T) {
	router, mem := setupRouter(t)

	resp := postIngest(t, router, IngestRequest{
		StoreName: "Kin Marché",
		Items: []IngestItem{
			{Name: "Riz parfumé 5kg", UnitPrice: 10000},
			{Name: "Sucre 1kg", UnitPrice: 1500, Quantity: 2},
		},
	})

	assert.NotEmpty(t, resp.ReceiptID, "receipt id generated when omitted")
	assert.Equal(t, 2, resp.Created)
	assert.Zero(t, resp.Failed)
	assert.Len(t, resp.Results, 2)
	assert.Equal(t, 2, mem.Len())
}

func TestIngestReceiptPartialFailure(t *testing.T) {
	router, _ := setupRouter(t)

	resp := postIngest(t, router, IngestRequest{
		ReceiptID: "rcpt_1",
		StoreName: "Kin Marché",
		Currency:  "USD",
		Items: []IngestItem{
			{Name: "Sel 500g", UnitPrice: 700},
			{Name: "***", UnitPrice: 100},
		},
	})

	assert.Equal(t, "rcpt_1", resp.ReceiptID)
	assert.Equal(t, 1, resp.Created)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, ledger.ActionFailed, resp.Results[1].Action)
}

func TestIngestReceiptValidation(t *testing.T) {
	router, _ := setupRouter(t)

	for name, body := range map[string]string{
		"Missing store": `{"items":[{"name":"Sel 500g","unitPrice":700}]}`,
		"Empty items":   `{"storeName":"Kin Marché","items":[]}`,
		"Not JSON":      `not json`,
	} {
		t.Run(name, func(t *testing.T) {
			req, err := http.NewRequest("POST", "/internal/receipts/ingest", bytes.NewBufferString(body))
			require.NoError(t, err)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetPriceHistory(t *testing.T) {
	router, _ := setupRouter(t)

	postIngest(t, router, IngestRequest{
		ReceiptID: "rcpt_1",
		StoreName: "Kin Marché",
		Items:     []IngestItem{{Name: "Sucre 1kg", UnitPrice: 1500}},
	})
	postIngest(t, router, IngestRequest{
		ReceiptID: "rcpt_2",
		StoreName: "Kin Marché",
		Items:     []IngestItem{{Name: "Sucre 1kg", UnitPrice: 1700}},
	})

	req, _ := http.NewRequest("GET", "/internal/prices/history?store=Kin+March%C3%A9&product=sucre+1kg", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Points, 2)
	assert.Equal(t, 1700.0, resp.Points[0].Price, "newest first")
	require.NotNil(t, resp.Points[0].PreviousPrice)
	assert.Equal(t, 1500.0, *resp.Points[0].PreviousPrice)
}

func TestGetPriceHistoryMissingParams(t *testing.T) {
	router, _ := setupRouter(t)

	req, _ := http.NewRequest("GET", "/internal/prices/history?store=Kin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComparePrices(t *testing.T) {
	router, _ := setupRouter(t)

	postIngest(t, router, IngestRequest{
		StoreName: "Kin Marché",
		Items:     []IngestItem{{Name: "Riz parfumé 5kg", UnitPrice: 10000}},
	})
	postIngest(t, router, IngestRequest{
		StoreName: "Shoprite",
		Items:     []IngestItem{{Name: "Riz parfumé 5kg", UnitPrice: 9000}},
	})

	req, _ := http.NewRequest("GET", "/internal/prices/compare?product=riz+parfume+5kg&store=Kin+March%C3%A9&price=10000", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cmp search.Comparison
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cmp))
	require.Len(t, cmp.Offers, 1)
	assert.Equal(t, "Shoprite", cmp.Offers[0].StoreName)
	assert.InDelta(t, 1000.0, cmp.PotentialSavings, 1e-9)
}

func TestSearchProductsEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	postIngest(t, router, IngestRequest{
		StoreName: "Kin Marché",
		Items: []IngestItem{
			{Name: "Riz parfumé 5kg", UnitPrice: 10000},
			{Name: "Savon Omo 500g", UnitPrice: 2000},
		},
	})

	req, _ := http.NewRequest("GET", "/internal/products/search?q=riz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Hits)
	assert.Equal(t, "Riz parfumé 5kg", resp.Hits[0].ProductName)
}

func TestExportPrices(t *testing.T) {
	router, _ := setupRouter(t)

	postIngest(t, router, IngestRequest{
		StoreName: "Kin Marché",
		Items:     []IngestItem{{Name: "Riz parfumé 5kg", UnitPrice: 10000}},
	})

	req, _ := http.NewRequest("GET", "/internal/prices/export", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, w.Body.Len())
}
