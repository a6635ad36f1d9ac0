// Package apiclient is a typed client for the price engine's internal
// HTTP API. It throttles and retries so batch callers (the CLI's remote
// mode, sibling services) can hammer the API without tripping its rate
// limits.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/goshopper/price-engine/internal/basket"
	"github.com/goshopper/price-engine/internal/search"
)

// Config holds the client's throttle and retry settings.
type Config struct {
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	Timeout           time.Duration
}

// DefaultConfig returns settings safe against the server's default rate
// limit.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 5,
		Burst:             5,
		MaxRetries:        3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        30 * time.Second,
		Timeout:           30 * time.Second,
	}
}

// Client talks to one price engine instance.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        Config
}

// New builds a client for the engine at baseURL. The API key goes out
// as X-Internal-API-Key on every request; empty means no auth header.
func New(baseURL, apiKey string, cfg Config) *Client {
	if cfg.RequestsPerSecond <= 0 {
		cfg = DefaultConfig()
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cfg:        cfg,
	}
}

// APIError is a non-2xx response from the engine.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// RetryError reports a request that failed after all retry attempts.
type RetryError struct {
	Path       string
	Attempts   int
	LastStatus int
	LastErr    error
}

func (e *RetryError) Error() string {
	msg := fmt.Sprintf("request to %s failed after %d attempts", e.Path, e.Attempts)
	if e.LastStatus != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.LastStatus)
	}
	if e.LastErr != nil {
		msg += ": " + e.LastErr.Error()
	}
	return msg
}

func (e *RetryError) Unwrap() error { return e.LastErr }

// IngestItem mirrors the server's ingest item body.
type IngestItem struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  float64 `json:"quantity,omitempty"`
	Unit      string  `json:"unit,omitempty"`
}

// IngestRequest mirrors the server's ingest body.
type IngestRequest struct {
	ReceiptID string       `json:"receiptId,omitempty"`
	StoreName string       `json:"storeName"`
	Currency  string       `json:"currency,omitempty"`
	Items     []IngestItem `json:"items"`
}

// IngestResult carries the batch tallies back from the server.
type IngestResult struct {
	ReceiptID string `json:"receiptId"`
	StoreName string `json:"storeName"`
	Created   int    `json:"created"`
	Updated   int    `json:"updated"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

// Ingest applies one receipt's items through the synchronous endpoint.
func (c *Client) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	var out IngestResult
	if err := c.post(ctx, "/internal/receipts/ingest", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Compare fetches cross-store offers for a product.
func (c *Client) Compare(ctx context.Context, product, excludeStore string, referencePrice float64) (*search.Comparison, error) {
	q := url.Values{"product": {product}}
	if excludeStore != "" {
		q.Set("store", excludeStore)
	}
	if referencePrice > 0 {
		q.Set("price", strconv.FormatFloat(referencePrice, 'f', -1, 64))
	}
	var out search.Comparison
	if err := c.get(ctx, "/internal/prices/compare", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// searchResponse mirrors the server's product search envelope.
type searchResponse struct {
	Query string       `json:"query"`
	Hits  []search.Hit `json:"hits"`
}

// SearchProducts runs the free-text product search.
func (c *Client) SearchProducts(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	q := url.Values{"q": {query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out searchResponse
	if err := c.get(ctx, "/internal/products/search", q, &out); err != nil {
		return nil, err
	}
	return out.Hits, nil
}

// planResponse mirrors the server's store ranking envelope.
type planResponse struct {
	Plans []basket.StorePlan `json:"plans"`
}

// PlanBasket ranks stores for a shopping list.
func (c *Client) PlanBasket(ctx context.Context, req basket.PlanRequest) ([]basket.StorePlan, error) {
	var out planResponse
	if err := c.post(ctx, "/internal/basket/plan", req, &out); err != nil {
		return nil, err
	}
	return out.Plans, nil
}

// SplitBasket spreads a shopping list across stores.
func (c *Client) SplitBasket(ctx context.Context, req basket.PlanRequest) (*basket.SplitPlan, error) {
	var out basket.SplitPlan
	if err := c.post(ctx, "/internal/basket/split", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path+"?"+query.Encode(), nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, payload, out)
}

// do sends one request with throttling and retries. Retryable failures
// are 429 and 5xx plus transport errors; 4xx returns immediately as an
// APIError.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var lastStatus int
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.apiKey != "" {
			req.Header.Set("X-Internal-API-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if err := c.backoff(ctx, attempt, ""); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			defer resp.Body.Close()
			if out == nil {
				return nil
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decoding response: %w", err)
			}
			return nil
		}

		lastStatus = resp.StatusCode
		retryAfter := resp.Header.Get("Retry-After")
		lastErr = decodeAPIError(resp)
		resp.Body.Close()

		if !retryable(resp.StatusCode) {
			return lastErr
		}
		if err := c.backoff(ctx, attempt, retryAfter); err != nil {
			return err
		}
	}

	return &RetryError{Path: path, Attempts: c.cfg.MaxRetries + 1, LastStatus: lastStatus, LastErr: lastErr}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err != nil || body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}
