package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterEnforcesMinDelayPerHost(t *testing.T) {
	rl := NewRateLimiter(50*time.Millisecond, 60*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, rl.Wait(ctx, "https://jobs.example.com/a"))
	start := time.Now()
	require.NoError(t, rl.Wait(ctx, "https://jobs.example.com/b"))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestRateLimiterDoesNotDelayDifferentHosts(t *testing.T) {
	rl := NewRateLimiter(200*time.Millisecond, 250*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, rl.Wait(ctx, "https://jobs.a.com/x"))
	start := time.Now()
	require.NoError(t, rl.Wait(ctx, "https://jobs.b.com/x"))
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 50*time.Millisecond)
}
