package sites

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/huntline/huntline/internal/scraper/resolver"
)

// towardsAICardSelectors is the one variant with no dedicated handling in
// the original source; it uses a generic card-scan strategy rather than a
// site-specific selector history (see DESIGN.md).
var towardsAICardSelectors = []string{
	"div.job-listing",
	"li.job-item",
	"article",
}

type TowardsAI struct{ Host string }

func NewTowardsAI() *TowardsAI { return &TowardsAI{Host: "jobs.towardsai.net"} }

func (a *TowardsAI) Name() string { return "towardsai" }

func (a *TowardsAI) BuildSearchURL(keyword, location string, page int) string {
	q := url.Values{}
	q.Set("q", keyword)
	if location != "" {
		q.Set("location", location)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return fmt.Sprintf("https://%s/jobs?%s", a.Host, q.Encode())
}

func (a *TowardsAI) LocateJobCards(doc *goquery.Document, listingHost string) ([]Card, error) {
	matched, sel := firstNonEmpty(doc, towardsAICardSelectors...)
	if sel == nil {
		return nil, noCardsErr(a.Name())
	}
	cards := make([]Card, 0, sel.Length())
	sel.Each(func(i int, s *goquery.Selection) {
		cards = append(cards, Card{Selection: s, ListingHost: listingHost, CardSelector: matched, Index: i})
	})
	return cards, nil
}

func (a *TowardsAI) ExtractBasicFields(card Card) (PartialRecord, bool) {
	s := card.Selection
	title := strings.TrimSpace(firstText(s, "h2", "h3", ".job-title"))
	company := strings.TrimSpace(firstText(s, ".company", ".employer"))
	location := strings.TrimSpace(firstText(s, ".location"))
	if title == "" || company == "" {
		return PartialRecord{}, false
	}
	href, _ := firstSelection(s, "a").Attr("href")
	link := resolver.LinkHandle{Href: href, ListingHost: card.ListingHost}
	if !isNavigableHref(href) {
		if anchor := firstMatchingSelector(s, "a"); anchor != "" {
			link.ClickSelector = clickSelector(card, anchor)
		}
	}
	return PartialRecord{
		Title:       title,
		Company:     company,
		Location:    location,
		Summary:     strings.TrimSpace(firstText(s, ".description", ".summary")),
		SummaryHTML: firstHTML(s, ".description", ".summary"),
		PostedText:  strings.TrimSpace(firstText(s, ".posted", "time")),
		Link:        link,
	}, true
}

func (a *TowardsAI) Paginate(state PageState) PaginationResult {
	if state.Doc == nil {
		return PaginationResult{End: true}
	}
	next := state.Doc.Find("a.next, a[rel=next]").First()
	href, ok := next.Attr("href")
	if !ok || href == "" {
		return PaginationResult{End: true}
	}
	return PaginationResult{NextURL: href}
}
