package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/metrics"
	"github.com/goshopper/price-engine/internal/receipts"
	"github.com/goshopper/price-engine/internal/stores"
)

// IngestItem is one receipt line in an ingest request.
type IngestItem struct {
	Name      string  `json:"name" binding:"required"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  float64 `json:"quantity,omitempty"`
	Unit      string  `json:"unit,omitempty"`
}

// IngestRequest is the body for POST /internal/receipts/ingest.
type IngestRequest struct {
	ReceiptID string       `json:"receiptId,omitempty"`
	StoreName string       `json:"storeName" binding:"required"`
	Currency  string       `json:"currency,omitempty"`
	Items     []IngestItem `json:"items" binding:"required,min=1,max=200"`
}

// IngestResponse reports per-item outcomes plus the batch tallies.
type IngestResponse struct {
	ReceiptID string                `json:"receiptId"`
	StoreName string                `json:"storeName"`
	Created   int                   `json:"created"`
	Updated   int                   `json:"updated"`
	Skipped   int                   `json:"skipped"`
	Failed    int                   `json:"failed"`
	Results   []ledger.UpsertResult `json:"results"`
}

// IngestReceipt applies one receipt's extracted items to the ledger.
// Items are processed strictly in order; the response is returned only
// after the whole batch has been applied. Partial failure still returns
// 200 with the failures reported per item.
// @Summary Ingest receipt items
// @Description Matches each extracted receipt item against the store's known products and appends price points for new or changed prices
// @Tags receipts
// @Accept json
// @Produce json
// @Param request body IngestRequest true "Receipt items to ingest"
// @Success 200 {object} IngestResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/receipts/ingest [post]
func IngestReceipt(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Currency == "" {
		req.Currency = "CDF"
	}

	rc := ledger.ReceiptContext{
		ReceiptID:           req.ReceiptID,
		StoreName:           stores.DisplayName(req.StoreName),
		StoreNameNormalized: stores.Canonicalize(req.StoreName),
		Currency:            req.Currency,
	}
	if rc.StoreNameNormalized == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "storeName is empty after normalization"})
		return
	}

	// Without an explicit receipt id, derive one from the content so a
	// re-posted receipt lands on the same identity.
	if rc.ReceiptID == "" {
		lines := make([]receipts.Line, len(req.Items))
		for i, it := range req.Items {
			lines[i] = receipts.Line{Name: it.Name, UnitPrice: it.UnitPrice, Quantity: it.Quantity}
		}
		rc.ReceiptID = receipts.DeterministicID(rc.StoreNameNormalized, lines)
	}

	items := make([]ledger.Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = ledger.Item{
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
		}
	}

	start := time.Now()
	summary := upserter.UpsertBatch(c.Request.Context(), rc, items)
	metrics.RecordBatch(len(items), time.Since(start))
	for _, r := range summary.Results {
		metrics.RecordItem(string(r.Action))
		if r.Action != ledger.ActionFailed {
			metrics.RecordMatch(r.MatchType, r.Confidence)
		}
	}

	log.Info().
		Str("receiptId", rc.ReceiptID).
		Str("store", req.StoreName).
		Int("items", len(items)).
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("Receipt ingested")

	c.JSON(http.StatusOK, IngestResponse{
		ReceiptID: rc.ReceiptID,
		StoreName: req.StoreName,
		Created:   summary.Created,
		Updated:   summary.Updated,
		Skipped:   summary.Skipped,
		Failed:    summary.Failed,
		Results:   summary.Results,
	})
}
