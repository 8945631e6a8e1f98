// Package sites implements component D: per-site plug-ins that build search
// URLs, locate job-card elements, and extract basic fields. Grounded on the
// teacher's link_extractor.go/html_scraper.go selector-fallback idiom
// (first non-empty match wins) using goquery for DOM traversal.
package sites

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/scraper/resolver"
)

// PageState carries whatever an adapter needs to decide the next page URL,
// replacing the dynamic attribute-on-context pattern in the original source
// with an explicit parameter struct (design note §9).
type PageState struct {
	CurrentPage int
	Doc         *goquery.Document
}

// PaginationResult is Adapter.Paginate's outcome.
type PaginationResult struct {
	NextURL string
	End     bool
}

// Card is one located job-card DOM handle plus the host it was found on,
// needed by URLResolver to classify self-links. CardSelector and Index
// together address the same element on the live page that Selection
// addresses in the parsed document, so a card whose href isn't navigable can
// still be reached by a click.
type Card struct {
	Selection    *goquery.Selection
	ListingHost  string
	CardSelector string
	Index        int
}

// PartialRecord is the minimum + optional fields Adapter.ExtractBasicFields
// can populate from a card, before URLResolver and fingerprinting run.
type PartialRecord struct {
	Title       string
	Company     string
	Location    string
	SalaryText  string
	PostedText  string
	Summary     string
	SummaryHTML string
	Link        resolver.LinkHandle
}

// Adapter is the capability set every site plug-in implements. Instances
// are stateless between calls; all mutable state lives in Scraper/BrowserPool.
type Adapter interface {
	Name() string
	BuildSearchURL(keyword, location string, page int) string
	LocateJobCards(doc *goquery.Document, listingHost string) ([]Card, error)
	ExtractBasicFields(card Card) (PartialRecord, bool)
	Paginate(state PageState) PaginationResult
}

// noCardsErr builds the AdapterDrift error an adapter returns when a page
// yields zero cards. It does not tell selector rot apart from a genuinely
// empty result page; the Scraper counts every such page as drift for the
// site.
func noCardsErr(site string) error {
	return common.AdapterDrift("SiteAdapter.LocateJobCards", fmt.Errorf("%s: zero cards located, selectors may have drifted", site))
}

// firstNonEmpty runs selectors in priority order against doc and returns the
// selector that matched along with the first selection with at least one
// match, so callers can address individual cards by the same selector later.
func firstNonEmpty(doc *goquery.Document, selectors ...string) (string, *goquery.Selection) {
	for _, sel := range selectors {
		s := doc.Find(sel)
		if s.Length() > 0 {
			return sel, s
		}
	}
	return "", nil
}

// firstMatchingSelector returns the first selector in the list that matches
// something inside s, for building a click target that addresses the same
// element chromedp will find on the live page.
func firstMatchingSelector(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if found := s.Find(sel); found.Length() > 0 {
			return sel
		}
	}
	return ""
}

// isNavigableHref reports whether href is something Resolve can follow
// directly, as opposed to a placeholder a site uses when the real posting
// only opens via a JS click handler (§4.C step 3).
func isNavigableHref(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" || href == "#!" {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(href), "javascript:")
}

// clickSelector addresses one card's link element on the live rendered page:
// CardSelector scoped to the card's position among siblings, narrowed to the
// anchor selector that matched during extraction.
func clickSelector(card Card, anchorSelector string) string {
	return fmt.Sprintf("%s:nth-of-type(%d) %s", card.CardSelector, card.Index+1, anchorSelector)
}
