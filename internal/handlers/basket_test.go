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

	"github.com/goshopper/price-engine/internal/basket"
)

func setupBasketRouter(t *testing.T) *gin.Engine {
	router, _ := setupRouter(t)

	cfg := basket.DefaultConfig()
	InitPlanner(basket.NewPlanner(basket.NewCatalog(store, cfg, nil), cfg, nil))

	router.POST("/internal/basket/plan", PlanBasket)
	router.POST("/internal/basket/split", SplitBasket)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", path, bytes.NewBuffer(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPlanBasket(t *testing.T) {
	router := setupBasketRouter(t)

	postIngest(t, router, IngestRequest{
		StoreName: "Shoprite",
		Items: []IngestItem{
			{Name: "Riz parfumé 5kg", UnitPrice: 13000},
			{Name: "Sel 500g", UnitPrice: 1200},
		},
	})
	postIngest(t, router, IngestRequest{
		StoreName: "Kin Marché",
		Items:     []IngestItem{{Name: "Riz parfumé 5kg", UnitPrice: 11000}},
	})

	w := postJSON(t, router, "/internal/basket/plan", basket.PlanRequest{Items: []basket.ListItem{
		{Name: "riz parfumé 5kg"},
		{Name: "sel 500g"},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Plans, 2)
	// Shoprite carries the whole list, Kin Marché only part of it.
	assert.Equal(t, "shoprite", resp.Plans[0].StoreKey)
	assert.InDelta(t, 1.0, resp.Plans[0].Coverage, 0.001)
	assert.Equal(t, "kin marche", resp.Plans[1].StoreKey)
	assert.Len(t, resp.Plans[1].Missing, 1)
}

func TestSplitBasket(t *testing.T) {
	router := setupBasketRouter(t)

	postIngest(t, router, IngestRequest{
		StoreName: "Shoprite",
		Items: []IngestItem{
			{Name: "Riz parfumé 5kg", UnitPrice: 11000},
			{Name: "Sel 500g", UnitPrice: 1500},
		},
	})
	postIngest(t, router, IngestRequest{
		StoreName: "Kin Marché",
		Items: []IngestItem{
			{Name: "Riz parfumé 5kg", UnitPrice: 13000},
			{Name: "Sel 500g", UnitPrice: 900},
		},
	})

	w := postJSON(t, router, "/internal/basket/split", basket.PlanRequest{Items: []basket.ListItem{
		{Name: "riz parfumé 5kg"},
		{Name: "sel 500g"},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var plan basket.SplitPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.InDelta(t, 11900, plan.Total, 0.01)
	assert.Len(t, plan.Visits, 2)
}

func TestPlanBasketRejectsEmptyList(t *testing.T) {
	router := setupBasketRouter(t)

	w := postJSON(t, router, "/internal/basket/plan", basket.PlanRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
