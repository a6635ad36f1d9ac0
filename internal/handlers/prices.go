package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/matching"
	"github.com/goshopper/price-engine/internal/metrics"
	"github.com/goshopper/price-engine/internal/search"
	"github.com/goshopper/price-engine/internal/stores"
)

// HistoryRequest represents query parameters for the price history endpoint
type HistoryRequest struct {
	Store   string `form:"store" binding:"required"`
	Product string `form:"product" binding:"required"`
	Limit   int    `form:"limit,default=50" binding:"min=1,max=500"`
}

// HistoryResponse represents the response for price history
type HistoryResponse struct {
	Store   string              `json:"store"`
	Product string              `json:"product"`
	Points  []ledger.PricePoint `json:"points"`
}

// GetPriceHistory returns the recorded price points for one product at
// one store, newest first.
// @Summary Get price history
// @Description Returns the recorded price points for one product at one store, newest first
// @Tags prices
// @Accept json
// @Produce json
// @Param store query string true "Store name"
// @Param product query string true "Product name"
// @Param limit query int false "Number of points to return" default(50) minimum(1) maximum(500)
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/prices/history [get]
func GetPriceHistory(c *gin.Context) {
	var req HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	storeKey := stores.Canonicalize(req.Store)
	productKey := matching.Normalize(req.Product)

	points, err := store.History(c.Request.Context(), storeKey, productKey, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load price history"})
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Store:   req.Store,
		Product: req.Product,
		Points:  points,
	})
}

// CompareRequest represents query parameters for the cross-store comparison
type CompareRequest struct {
	Product string  `form:"product" binding:"required"`
	Store   string  `form:"store"`
	Price   float64 `form:"price" binding:"min=0"`
}

// ComparePrices finds the product at other stores and reports their
// prices, cheapest first, with the potential saving against the caller's
// reference price.
// @Summary Compare prices across stores
// @Description Finds the best offer per store for a product and reports the potential saving against a reference price
// @Tags prices
// @Accept json
// @Produce json
// @Param product query string true "Product name"
// @Param store query string false "Store to exclude from the comparison"
// @Param price query number false "Reference price for the savings calculation" minimum(0)
// @Success 200 {object} search.Comparison
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/prices/compare [get]
func ComparePrices(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	cmp := searcher.CompareAcrossStores(
		c.Request.Context(),
		req.Product,
		stores.Canonicalize(req.Store),
		req.Price,
	)
	metrics.RecordSearch("compare", time.Since(start))

	c.JSON(http.StatusOK, cmp)
}

// SearchRequest represents query parameters for free-text product search
type SearchRequest struct {
	Query string `form:"q" binding:"required"`
	Limit int    `form:"limit,default=20" binding:"min=1,max=100"`
}

// SearchResponse represents the response for product search
type SearchResponse struct {
	Query string       `json:"query"`
	Hits  []search.Hit `json:"hits"`
}

// SearchProducts looks up products across all stores by approximate name.
// @Summary Search products
// @Description Looks up products across all stores by approximate name
// @Tags products
// @Accept json
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Number of hits to return" default(20) minimum(1) maximum(100)
// @Success 200 {object} SearchResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/products/search [get]
func SearchProducts(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	hits := searcher.SearchProducts(c.Request.Context(), req.Query, req.Limit)
	metrics.RecordSearch("products", time.Since(start))

	c.JSON(http.StatusOK, SearchResponse{Query: req.Query, Hits: hits})
}
