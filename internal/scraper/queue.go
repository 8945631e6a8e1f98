package scraper

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// WorkItem is one (site, keyword, location) triple to crawl (§4.F step 1).
type WorkItem struct {
	SiteName string
	Keyword  string
	Location string
}

// WorkQueue drains (site, keyword, location) triples in a deterministic
// order given the same inputs. Grounded on
// internal/services/crawler/queue.go's heap+sync.Cond shape; unlike the
// teacher's URLQueue this orders lexicographically rather than by
// depth/priority, since spec.md calls for "deterministic... not priority
// ordering" (§4.F).
type WorkQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  *workHeap
	closed bool
}

func NewWorkQueue(items []WorkItem) *WorkQueue {
	h := make(workHeap, len(items))
	copy(h, items)
	heap.Init(&h)
	q := &WorkQueue{items: &h}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Pop blocks until an item is available, the queue is closed, or ctx is
// done. A nil item with a nil error means the queue is closed and drained.
func (q *WorkQueue) Pop(ctx context.Context) (*WorkItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if q.items.Len() > 0 {
			item := heap.Pop(q.items).(WorkItem)
			return &item, nil
		}
		if q.closed {
			return nil, nil
		}

		// cond.Wait cannot itself observe ctx cancellation; a periodic
		// broadcast bounds how long a Pop can block before re-checking ctx,
		// mirroring the teacher's AfterFunc-driven wake pattern.
		timer := time.AfterFunc(100*time.Millisecond, q.cond.Broadcast)
		q.cond.Wait()
		timer.Stop()
	}
}

func (q *WorkQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

func (q *WorkQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

type workHeap []WorkItem

func (h workHeap) Len() int { return len(h) }

func (h workHeap) Less(i, j int) bool {
	if h[i].SiteName != h[j].SiteName {
		return h[i].SiteName < h[j].SiteName
	}
	if h[i].Keyword != h[j].Keyword {
		return h[i].Keyword < h[j].Keyword
	}
	return h[i].Location < h[j].Location
}

func (h workHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *workHeap) Push(x interface{}) { *h = append(*h, x.(WorkItem)) }

func (h *workHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
