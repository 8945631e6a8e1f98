package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/interfaces"
	"github.com/huntline/huntline/internal/jobrecord"
	"github.com/huntline/huntline/internal/scraper/browserpool"
	"github.com/huntline/huntline/internal/scraper/resolver"
	"github.com/huntline/huntline/internal/scraper/sites"
)

// worker drains WorkQueue items, holding at most one BrowserPool lease at a
// time (§4.F step 2).
type worker struct {
	id          int
	pool        *browserpool.Pool
	resolver    *resolver.Resolver
	store       interfaces.Store
	rateLimiter *RateLimiter
	retry       *RetryPolicy
	logger      common.Logger
	counters    *common.Counters
	seen        *seenSet
	limits      Limits
}

func (w *worker) run(ctx context.Context, queue *WorkQueue, adapters map[string]sites.Adapter) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item, err := queue.Pop(ctx)
		if err != nil || item == nil {
			return
		}

		adapter, ok := adapters[item.SiteName]
		if !ok {
			w.logger.Warn().Str("site", item.SiteName).Msg("unknown site in work item")
			continue
		}

		w.crawlTriple(ctx, adapter, *item)
	}
}

// crawlTriple walks pages sequentially for one (site, keyword, location)
// triple until max_pages_per_keyword, no cards, or max_jobs_per_keyword
// (§4.F step 3).
func (w *worker) crawlTriple(ctx context.Context, adapter sites.Adapter, item WorkItem) {
	jobsFound := 0
	page := 1

	for page <= w.limits.MaxPagesPerKeyword {
		select {
		case <-ctx.Done():
			return
		default:
		}

		searchURL := adapter.BuildSearchURL(item.Keyword, item.Location, page)

		if err := w.rateLimiter.Wait(ctx, searchURL); err != nil {
			return
		}

		var doc *goquery.Document
		err := w.retry.Run(ctx, func() error {
			var fetchErr error
			doc, fetchErr = w.fetchPage(ctx, searchURL)
			return fetchErr
		})
		if err != nil {
			w.counters.Incr(fmt.Sprintf("site_error:%s", adapter.Name()))
			return
		}

		listingHost := hostOf(searchURL)
		cards, err := adapter.LocateJobCards(doc, listingHost)
		if err != nil {
			w.counters.Incr(fmt.Sprintf("adapter_drift:%s", adapter.Name()))
			return
		}
		if len(cards) == 0 {
			return
		}

		for _, card := range cards {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if jobsFound >= w.limits.MaxJobsPerKeyword {
				return
			}

			if w.processCard(ctx, adapter, item, searchURL, listingHost, card) {
				jobsFound++
			}
		}

		result := adapter.Paginate(sites.PageState{CurrentPage: page, Doc: doc})
		if result.End {
			return
		}
		page++
	}
}

// processCard implements §4.F step 4: extract, resolve, fingerprint, tag
// ATS, upsert. Returns true if a new or updated record reached the Store.
func (w *worker) processCard(ctx context.Context, adapter sites.Adapter, item WorkItem, listingPageURL, listingHost string, card sites.Card) bool {
	partial, ok := adapter.ExtractBasicFields(card)
	if !ok {
		w.counters.Incr("card_dropped_missing_required_field")
		return false
	}
	partial.Link.ListingHost = listingHost

	// Pre-resolution dedupe key: title+company+location, the same shape
	// Fingerprint falls back to when there's no canonical URL yet. A repeat
	// hit on this key within the run skips straight past the browser lease
	// and click/resolve round-trip, since we already know the outcome.
	dedupeKey := jobrecord.Fingerprint(partial.Title, partial.Company, "", partial.Location, false)
	if w.seen.contains(dedupeKey) {
		w.counters.Incr("skipped_seen_this_run")
		return false
	}

	lease, err := w.pool.Acquire(ctx)
	if err != nil {
		w.counters.Incr("lease_acquire_failed")
		return false
	}
	canonicalURL, err := w.resolver.Resolve(ctx, listingPageURL, partial.Link)
	lease.Release()
	if err != nil {
		w.counters.Incr("resolve_failed")
		return false
	}
	if canonicalURL == "" {
		w.counters.Incr("resolve_empty")
		return false
	}

	fingerprint := jobrecord.Fingerprint(partial.Title, partial.Company, canonicalURL, partial.Location, false)

	record := &jobrecord.JobRecord{
		Fingerprint:    fingerprint,
		Title:          partial.Title,
		Company:        partial.Company,
		Location:       partial.Location,
		CanonicalURL:   canonicalURL,
		SourceSite:     adapter.Name(),
		SearchKeyword:  item.Keyword,
		SearchLocation: item.Location,
		SalaryText:     partial.SalaryText,
		PostedText:     partial.PostedText,
		Summary:        partial.Summary,
		Description:    descriptionFrom(partial, canonicalURL),
		ATSSystemTag:   jobrecord.DetectATSSystem(canonicalURL),
		Status:         jobrecord.StatusScraped,
		ScrapedAt:      time.Now(),
		LastSeenAt:     time.Now(),
	}

	result, err := w.store.Upsert(record)
	if err != nil {
		w.counters.Incr("upsert_failed")
		return false
	}
	if result == interfaces.Unchanged {
		w.seen.add(dedupeKey)
		w.counters.Incr("upsert_unchanged")
		return false
	}

	w.seen.add(dedupeKey)
	w.counters.Incr(fmt.Sprintf("upsert_%s", result))
	return true
}

// fetchPage acquires a lease, navigates, and returns the rendered DOM,
// grounded on the browser-driven fetch idiom BrowserPool/resolver already
// use rather than a plain net/http GET, since most listing pages here are
// JS-rendered.
func (w *worker) fetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	lease, err := w.pool.Acquire(ctx)
	if err != nil {
		return nil, common.Transient("worker.fetchPage.acquire", err)
	}
	defer lease.Release()

	html, err := navigateAndCapture(lease.Context, pageURL)
	if err != nil {
		return nil, common.Transient("worker.fetchPage.navigate", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, common.AdapterDrift("worker.fetchPage.parse", err)
	}
	return doc, nil
}

// descriptionFrom converts the card's raw summary HTML to markdown so Stage2
// analysis works against normalized text instead of listing-page markup,
// falling back to the plain-text summary when there is no HTML snippet or
// the conversion fails.
func descriptionFrom(partial sites.PartialRecord, baseURL string) string {
	if partial.SummaryHTML == "" {
		return partial.Summary
	}
	converted, err := md.NewConverter(baseURL, true, nil).ConvertString(partial.SummaryHTML)
	if err != nil || strings.TrimSpace(converted) == "" {
		return partial.Summary
	}
	return converted
}
