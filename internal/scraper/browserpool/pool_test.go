package browserpool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"
)

func newTestSemaphore(n int64) *semaphore.Weighted {
	return semaphore.NewWeighted(n)
}

// TestLeaseReleaseIsIdempotent verifies that releasing the same lease twice
// does not panic. Like the other tests in this file it exercises only the
// semaphore/free-list discipline, not real Chrome, by acquiring leases
// directly against a pool whose instances are never actually launched.
func TestLeaseReleaseIsIdempotent(t *testing.T) {
	p := &Pool{cfg: Config{Size: 1}, sem: newTestSemaphore(1)}
	p.instances = []*instance{{healthy: true}}
	p.free = []int{0}

	lease, err := p.Acquire(context.Background())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		lease.Release()
		lease.Release()
	})
}

func TestAcquireBlocksUntilReleased(t *testing.T) {
	p := &Pool{cfg: Config{Size: 1}, sem: newTestSemaphore(1)}
	p.instances = []*instance{{healthy: true}}
	p.free = []int{0}

	lease, err := p.Acquire(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	acquired := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		l2, err := p.Acquire(context.Background())
		require.NoError(t, err)
		close(acquired)
		l2.Release()
	}()

	select {
	case <-acquired:
		t.Fatal("second Acquire should block while the pool is fully leased")
	case <-time.After(50 * time.Millisecond):
	}

	lease.Release()
	wg.Wait()
}

func TestAcquireRespectsCallerDeadline(t *testing.T) {
	p := &Pool{cfg: Config{Size: 1}, sem: newTestSemaphore(1)}
	p.instances = []*instance{{healthy: true}}
	p.free = []int{0}

	lease, err := p.Acquire(context.Background())
	require.NoError(t, err)
	defer lease.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = p.Acquire(ctx)
	require.Error(t, err)
}
