package scraper

import (
	"context"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter enforces the jittered between-page delay of §4.F step 5, per
// host so one slow site's pacing doesn't throttle another. Grounded on
// internal/services/crawler/rate_limiter.go's per-domain shape, but the
// actual token bucket is golang.org/x/time/rate, the way
// internal/eodhd/client.go paces its own per-endpoint requests.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	minDelay time.Duration
	maxDelay time.Duration
}

func NewRateLimiter(minDelay, maxDelay time.Duration) *RateLimiter {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

// Wait blocks until the per-host jittered delay since the last request to
// that host has elapsed. Each host gets its own single-token bucket refilled
// at a jittered rate, re-rolled on every grant so the interval itself varies
// rather than settling into a fixed cadence.
func (rl *RateLimiter) Wait(ctx context.Context, rawURL string) error {
	host := hostOf(rawURL)
	if host == "" {
		return nil
	}

	limiter := rl.limiterFor(host)
	if err := limiter.Wait(ctx); err != nil {
		return err
	}
	limiter.SetLimit(rate.Every(rl.jitteredDelay()))
	return nil
}

func (rl *RateLimiter) limiterFor(host string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Every(rl.jitteredDelay()), 1)
		rl.limiters[host] = l
	}
	return l
}

func (rl *RateLimiter) jitteredDelay() time.Duration {
	span := rl.maxDelay - rl.minDelay
	if span <= 0 {
		return rl.minDelay
	}
	return rl.minDelay + time.Duration(rand.Int63n(int64(span)))
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
