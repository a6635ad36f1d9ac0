package ledger

import (
	"time"
)

// PricePoint is one immutable observed price fact for a product at a
// store. Rows accumulate; they are the product's history and are never
// mutated after insert.
type PricePoint struct {
	ID                    string    `json:"id"`
	ProductNameRaw        string    `json:"productNameRaw"`
	ProductNameNormalized string    `json:"productNameNormalized"`
	StoreName             string    `json:"storeName"`
	StoreNameNormalized   string    `json:"storeNameNormalized"`
	Price                 float64   `json:"price"`
	Currency              string    `json:"currency"`
	Unit                  string    `json:"unit,omitempty"`
	Quantity              float64   `json:"quantity"`
	PricePerUnit          float64   `json:"pricePerUnit"`
	PreviousPrice         *float64  `json:"previousPrice,omitempty"` // price this point superseded
	RecordedAt            time.Time `json:"recordedAt"`
	SourceReceiptID       string    `json:"sourceReceiptId,omitempty"`
	MatchType             string    `json:"matchType"`
	MatchConfidence       float64   `json:"matchConfidence"`
}

// Item is one extracted receipt line arriving from the upstream OCR/LLM
// step. Fields are already plain text and numbers; the engine only checks
// that the name is non-empty and the numbers are finite and non-negative.
type Item struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  float64 `json:"quantity"` // defaulted to 1 when missing
	Unit      string  `json:"unit,omitempty"`
}

// ReceiptContext carries the per-receipt fields shared by every item in
// one ingestion batch.
type ReceiptContext struct {
	ReceiptID           string `json:"receiptId"`
	StoreName           string `json:"storeName"`
	StoreNameNormalized string `json:"storeNameNormalized"`
	Currency            string `json:"currency"`
}

// Action is the upsert decision for one item.
type Action string

const (
	ActionCreated Action = "created" // new product or changed price, row inserted
	ActionUpdated Action = "updated" // price change appended on an existing product
	ActionSkipped Action = "skipped" // duplicate within price tolerance, no row
	ActionFailed  Action = "failed"  // storage or validation failure, no row
)

// UpsertResult reports the outcome for one item.
type UpsertResult struct {
	Name         string  `json:"name"`
	Action       Action  `json:"action"`
	PricePointID string  `json:"pricePointId,omitempty"`
	MatchedName  string  `json:"matchedName,omitempty"`
	MatchType    string  `json:"matchType,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// BatchSummary aggregates one receipt's upsert outcomes. Failed items are
// counted separately and excluded from the created/updated/skipped
// tallies; a batch with failures is partially applied.
type BatchSummary struct {
	Created int            `json:"created"`
	Updated int            `json:"updated"`
	Skipped int            `json:"skipped"`
	Failed  int            `json:"failed"`
	Results []UpsertResult `json:"results"`
}
