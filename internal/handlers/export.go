package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/goshopper/price-engine/internal/export"
	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/stores"
)

// ExportRequest represents query parameters for the XLSX export
type ExportRequest struct {
	Store string `form:"store"`
	Limit int    `form:"limit,default=1000" binding:"min=1,max=10000"`
}

// ExportPrices streams recent price points as an XLSX workbook, either
// for one store or across all stores.
// @Summary Export prices as XLSX
// @Description Streams recent price points as an XLSX workbook, scoped to one store when given
// @Tags prices
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param store query string false "Store name"
// @Param limit query int false "Number of points to export" default(1000) minimum(1) maximum(10000)
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/prices/export [get]
func ExportPrices(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var points []ledger.PricePoint
	var err error
	if req.Store != "" {
		points, err = store.RecentDistinctProducts(ctx, stores.Canonicalize(req.Store), req.Limit)
	} else {
		points, err = store.RecentWindow(ctx, req.Limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load price points"})
		return
	}

	f := export.Workbook(points)
	defer f.Close()

	filename := fmt.Sprintf("prices-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("Failed to stream XLSX export")
	}
}
