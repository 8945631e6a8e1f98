// Package scraper implements component F: orchestrating the
// Σ(keywords × locations × pages) search space across one or more
// SiteAdapters, producing a stream of upserts into Store. Grounded on the
// teacher's internal/services/crawler worker-pool shape
// (queue.go/rate_limiter.go/retry.go), re-targeted from URL crawling to the
// site/keyword/location triple model spec.md §4.F describes.
package scraper

import (
	"sync"

	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/interfaces"
	"github.com/huntline/huntline/internal/scraper/browserpool"
	"github.com/huntline/huntline/internal/scraper/resolver"
	"github.com/huntline/huntline/internal/scraper/sites"
)

// Limits bounds one scrape() invocation (§4.F).
type Limits struct {
	MaxPagesPerKeyword   int
	MaxJobsPerKeyword    int
	DaysPostedWindow     int
	MaxConcurrentWorkers int
}

// Summary counts per terminal outcome for the run log and CLI output.
type Summary struct {
	Counters map[string]int64
}

// Scraper owns the shared BrowserPool, URLResolver, rate limiter, and retry
// policy that every worker draws on.
type Scraper struct {
	pool        *browserpool.Pool
	resolver    *resolver.Resolver
	rateLimiter *RateLimiter
	retry       *RetryPolicy
	logger      common.Logger
}

func New(pool *browserpool.Pool, res *resolver.Resolver, rateLimiter *RateLimiter, retry *RetryPolicy, logger common.Logger) *Scraper {
	return &Scraper{pool: pool, resolver: res, rateLimiter: rateLimiter, retry: retry, logger: logger}
}

// Scrape runs §4.F's algorithm: build the work queue, drain it with a
// bounded worker pool, and absorb results into rc.Store via idempotent
// upsert. Cancellation is checked between card extractions and at page
// boundaries (§5); a cancelled scrape returns a partial Summary.
func (s *Scraper) Scrape(rc *interfaces.RunContext, keywords, locations []string, adapters []sites.Adapter, limits Limits) Summary {
	if limits.MaxPagesPerKeyword <= 0 {
		limits.MaxPagesPerKeyword = 3
	}
	if limits.MaxJobsPerKeyword <= 0 {
		limits.MaxJobsPerKeyword = 50
	}
	if limits.MaxConcurrentWorkers <= 0 {
		limits.MaxConcurrentWorkers = s.pool.Size()
	}

	byName := make(map[string]sites.Adapter, len(adapters))
	var items []WorkItem
	for _, a := range adapters {
		byName[a.Name()] = a
		for _, kw := range keywords {
			for _, loc := range locations {
				items = append(items, WorkItem{SiteName: a.Name(), Keyword: kw, Location: loc})
			}
		}
	}

	queue := NewWorkQueue(items)
	queue.Close()
	seen := newSeenSet()

	var wg sync.WaitGroup
	for i := 0; i < limits.MaxConcurrentWorkers; i++ {
		w := &worker{
			id:          i,
			pool:        s.pool,
			resolver:    s.resolver,
			store:       rc.Store,
			rateLimiter: s.rateLimiter,
			retry:       s.retry,
			logger:      rc.Logger,
			counters:    rc.Counters,
			seen:        seen,
			limits:      limits,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(rc.Context, queue, byName)
		}()
	}

	wg.Wait()

	return Summary{Counters: rc.Counters.Snapshot()}
}

// seenSet is the in-memory dedupe-key set of §4.F step 4, keyed on
// title+company+location (not the post-resolution fingerprint, so a later
// keyword hit in the same run can skip re-resolving entirely rather than
// only skipping after paying for the resolve).
type seenSet struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newSeenSet() *seenSet {
	return &seenSet{seen: make(map[string]bool)}
}

func (s *seenSet) contains(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[fingerprint]
}

func (s *seenSet) add(fingerprint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[fingerprint] = true
}
