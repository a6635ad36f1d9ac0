package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/receipts"
	"github.com/goshopper/price-engine/internal/stores"
	"github.com/goshopper/price-engine/internal/taskqueue"
	"github.com/goshopper/price-engine/internal/workers"
)

// queue is nil when the engine runs without postgres; the async
// endpoints then report 503 instead of silently degrading.
var queue *taskqueue.TaskQueue

// InitQueue installs the task queue used by the async ingest endpoints.
func InitQueue(q *taskqueue.TaskQueue) {
	queue = q
}

// EnqueueResponse acknowledges an accepted async ingest.
type EnqueueResponse struct {
	TaskID    string `json:"taskId"`
	ReceiptID string `json:"receiptId"`
}

// EnqueueReceipt accepts a receipt batch and queues it for background
// processing instead of applying it inline.
// @Summary Enqueue receipt for async ingestion
// @Description Validates the receipt and queues it; a background worker applies it to the ledger
// @Tags receipts
// @Accept json
// @Produce json
// @Param request body IngestRequest true "Receipt items to ingest"
// @Success 202 {object} EnqueueResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 503 {object} map[string]string "Queue not configured"
// @Router /internal/receipts/enqueue [post]
func EnqueueReceipt(c *gin.Context) {
	if queue == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Task queue requires a database backend"})
		return
	}

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

	items := make([]ledger.Item, len(req.Items))
	lines := make([]receipts.Line, len(req.Items))
	for i, it := range req.Items {
		items[i] = ledger.Item{Name: it.Name, UnitPrice: it.UnitPrice, Quantity: it.Quantity, Unit: it.Unit}
		lines[i] = receipts.Line{Name: it.Name, UnitPrice: it.UnitPrice, Quantity: it.Quantity}
	}
	if rc.ReceiptID == "" {
		rc.ReceiptID = receipts.DeterministicID(rc.StoreNameNormalized, lines)
	}

	taskID, err := queue.Enqueue(c.Request.Context(), taskqueue.EnqueueInput{
		TaskType: taskqueue.TaskTypeReceiptIngest,
		Payload:  workers.ReceiptTask{Receipt: rc, Items: items},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue receipt"})
		return
	}

	c.JSON(http.StatusAccepted, EnqueueResponse{TaskID: taskID, ReceiptID: rc.ReceiptID})
}

// GetIngestTask reports the status of a queued ingest.
// @Summary Get ingest task status
// @Description Returns the queue record for one async ingest task
// @Tags receipts
// @Produce json
// @Param id path string true "Task id"
// @Success 200 {object} taskqueue.Task
// @Failure 404 {object} map[string]string "Not found"
// @Failure 503 {object} map[string]string "Queue not configured"
// @Router /internal/receipts/tasks/{id} [get]
func GetIngestTask(c *gin.Context) {
	if queue == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Task queue requires a database backend"})
		return
	}

	task, err := queue.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, task)
}
