package scraper

import (
	"context"
	"math/rand"
	"time"

	"github.com/huntline/huntline/internal/common"
)

// RetryPolicy is exponential backoff with jitter for transient per-page
// failures (§4.F step 6). Grounded on
// internal/services/crawler/retry.go's RetryPolicy, trimmed to the status-
// code-free shape scraping needs: every failure here is a SiteAdapter or
// URLResolver error classified by common.ErrorKind, not an HTTP status.
type RetryPolicy struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

func NewRetryPolicy(maxAttempts int) *RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &RetryPolicy{
		MaxAttempts:       maxAttempts,
		InitialBackoff:    time.Second,
		MaxBackoff:        15 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

func (p *RetryPolicy) calculateBackoff(attempt int) time.Duration {
	backoff := float64(p.InitialBackoff)
	for i := 0; i < attempt; i++ {
		backoff *= p.BackoffMultiplier
	}
	if backoff > float64(p.MaxBackoff) {
		backoff = float64(p.MaxBackoff)
	}
	jitter := backoff * 0.25 * (rand.Float64()*2 - 1)
	backoff += jitter
	if backoff < 0 {
		backoff = float64(p.InitialBackoff)
	}
	return time.Duration(backoff)
}

// Run retries fn only on KindTransient errors; KindAdapterDrift and
// KindInvalid are returned immediately since retrying them cannot help
// (§3's error propagation policy).
func (p *RetryPolicy) Run(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if common.KindOf(lastErr) != common.KindTransient {
			return lastErr
		}
		if attempt == p.MaxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.calculateBackoff(attempt)):
		}
	}
	return lastErr
}
