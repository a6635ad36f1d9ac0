package apiclient

import (
	"context"
	"math"
	"math/rand/v2"
	"strconv"
	"time"
)

// backoff sleeps before the next attempt. A Retry-After header from the
// server wins over the computed delay; either way up to 25% jitter is
// added so stalled callers do not retry in lockstep.
func (c *Client) backoff(ctx context.Context, attempt int, retryAfter string) error {
	delay := c.backoffDelay(attempt, retryAfter)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) backoffDelay(attempt int, retryAfter string) time.Duration {
	if retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			base := time.Duration(seconds) * time.Second
			return base + jitter(base)
		}
	}

	exp := float64(c.cfg.InitialBackoff) * math.Pow(2, float64(attempt))
	capped := time.Duration(math.Min(exp, float64(c.cfg.MaxBackoff)))
	return capped + jitter(capped)
}

func jitter(d time.Duration) time.Duration {
	return time.Duration(rand.Float64() * 0.25 * float64(d))
}
