// Package resolver implements component C: turning a listing-page link
// handle into the canonical employer-side URL a human would land on.
package resolver

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/jobrecord"
	"github.com/huntline/huntline/internal/scraper/browserpool"
)

// Resolver resolves link handles to canonical URLs per the first-success-
// wins order in §4.C.
type Resolver struct {
	pool            *browserpool.Pool
	logger          common.Logger
	perClickBudget  time.Duration
	timeoutCounter  *common.Counters
}

func New(pool *browserpool.Pool, logger common.Logger, perClickBudget time.Duration, counters *common.Counters) *Resolver {
	if perClickBudget <= 0 {
		perClickBudget = 5 * time.Second
	}
	return &Resolver{pool: pool, logger: logger, perClickBudget: perClickBudget, timeoutCounter: counters}
}

// LinkHandle is the minimal shape a SiteAdapter card link must supply:
// either a direct href, or a click selector to drive in an automated
// browser context when the href alone isn't resolvable.
type LinkHandle struct {
	Href           string
	ClickSelector  string
	ListingHost    string
}

// Resolve implements the §4.C resolution order, first-success-wins.
func (r *Resolver) Resolve(ctx context.Context, listingPageURL string, link LinkHandle) (string, error) {
	if link.Href != "" {
		if jobrecord.IsListingSelfLink(link.Href, link.ListingHost) {
			r.timeoutCounter.Incr("resolver_self_link_discarded")
			return "", nil
		}

		abs := absoluteURL(listingPageURL, link.Href)
		host := hostOf(abs)

		// Step 1: absolute external URL.
		if host != "" && !strings.EqualFold(host, link.ListingHost) {
			return abs, nil
		}

		// Step 2: site-internal redirect wrapper.
		if isRedirectWrapper(abs) {
			return abs, nil
		}
	}

	// Step 3: click-and-capture-popup.
	if link.ClickSelector == "" {
		return "", nil
	}
	return r.resolveViaClick(ctx, link)
}

func isRedirectWrapper(absURL string) bool {
	u, err := url.Parse(absURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	return strings.Contains(path, "/redirect") || strings.Contains(path, "/out") || strings.Contains(path, "/click")
}

func absoluteURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// resolveViaClick drives an automated browser context: clicks the link,
// captures the URL of any popup window that opens, closes the popup within
// one event-loop turn after capture, and falls back to the current page URL
// if it navigated off the listing domain. Every exit path is bounded by the
// per-click budget and closes any popup it opened.
func (r *Resolver) resolveViaClick(ctx context.Context, link LinkHandle) (string, error) {
	lease, err := r.pool.Acquire(ctx)
	if err != nil {
		return "", common.Transient("Resolver.resolveViaClick", err)
	}
	defer lease.Release()

	budgetCtx, cancel := context.WithTimeout(lease.Context, r.perClickBudget)
	defer cancel()

	popupURLCh := make(chan string, 1)
	chromedp.ListenTarget(budgetCtx, func(ev interface{}) {
		if created, ok := ev.(*target.EventTargetCreated); ok && created.TargetInfo.Type == "page" {
			select {
			case popupURLCh <- created.TargetInfo.URL:
			default:
			}
		}
	})

	var currentURL string
	clickErr := chromedp.Run(budgetCtx,
		chromedp.Click(link.ClickSelector, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			select {
			case <-time.After(300 * time.Millisecond):
			case <-ctx.Done():
			}
			return nil
		}),
		chromedp.Location(&currentURL),
	)

	var popupURL string
	select {
	case popupURL = <-popupURLCh:
		r.closePopup(budgetCtx, popupURL)
	default:
	}

	if popupURL == "" && clickErr != nil {
		if budgetCtx.Err() != nil {
			r.timeoutCounter.Incr("resolver_click_timeout")
			return "", nil
		}
		return "", common.Transient("Resolver.resolveViaClick", clickErr)
	}

	return choosePopupOrFallback(popupURL, currentURL, link.ListingHost), nil
}

// choosePopupOrFallback decides between a captured popup URL and the page's
// own location after the click, preferring the popup since that's the tab
// the posting actually opened in, and falling back to the click target's own
// navigation only if it left the listing host.
func choosePopupOrFallback(popupURL, currentURL, listingHost string) string {
	if popupURL != "" {
		return popupURL
	}
	if currentURL != "" && !strings.EqualFold(hostOf(currentURL), listingHost) {
		return currentURL
	}
	return ""
}

func (r *Resolver) closePopup(ctx context.Context, popupURL string) {
	targets, err := chromedp.Targets(ctx)
	if err != nil {
		return
	}
	for _, t := range targets {
		if t.URL != popupURL {
			continue
		}
		targetID := t.TargetID
		_ = chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := target.CloseTarget(targetID).Do(ctx)
			return err
		}))
	}
}
