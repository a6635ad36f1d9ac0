package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goshopper/price-engine/internal/basket"
	"github.com/goshopper/price-engine/internal/metrics"
)

var planner *basket.Planner

// InitPlanner installs the shopping list planner.
func InitPlanner(p *basket.Planner) {
	planner = p
}

// PlanResponse ranks stores for buying a shopping list in one trip.
type PlanResponse struct {
	Plans []basket.StorePlan `json:"plans"`
}

// PlanBasket ranks stores for a shopping list.
// @Summary Rank stores for a shopping list
// @Description Scores every known store against the list; coverage decides first, total price second
// @Tags basket
// @Accept json
// @Produce json
// @Param request body basket.PlanRequest true "Shopping list"
// @Success 200 {object} PlanResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/basket/plan [post]
func PlanBasket(c *gin.Context) {
	var req basket.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	plans, err := planner.PlanStores(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coverage := 0.0
	if len(plans) > 0 {
		coverage = plans[0].Coverage
	}
	metrics.RecordPlan("single", coverage, time.Since(start))

	c.JSON(http.StatusOK, PlanResponse{Plans: plans})
}

// SplitBasket spreads a shopping list over several stores.
// @Summary Split a shopping list across stores
// @Description Assigns each item to its cheapest store, bounded by maxStores visits
// @Tags basket
// @Accept json
// @Produce json
// @Param request body basket.PlanRequest true "Shopping list"
// @Success 200 {object} basket.SplitPlan
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/basket/split [post]
func SplitBasket(c *gin.Context) {
	var req basket.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	plan, err := planner.PlanSplit(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	metrics.RecordPlan("split", plan.Coverage, time.Since(start))

	c.JSON(http.StatusOK, plan)
}
