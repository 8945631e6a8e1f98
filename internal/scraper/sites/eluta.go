package sites

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/huntline/huntline/internal/scraper/resolver"
)

// elutaCardSelectors is a priority-ordered fallback list: the site's markup
// has drifted between a div.organic-job and an article.result-item shape
// historically, grounded on the selector-rot investigation referenced by
// debug_analyze_eluta_structure.py in the original source.
var elutaCardSelectors = []string{
	"div.organic-job",
	"article.result-item",
	"div[data-job-id]",
}

type Eluta struct{ Host string }

func NewEluta() *Eluta { return &Eluta{Host: "www.eluta.ca"} }

func (e *Eluta) Name() string { return "eluta" }

func (e *Eluta) BuildSearchURL(keyword, location string, page int) string {
	q := url.Values{}
	q.Set("q", keyword)
	if location != "" {
		q.Set("loc", location)
	}
	if page > 1 {
		q.Set("pg", strconv.Itoa(page))
	}
	return fmt.Sprintf("https://%s/search?%s", e.Host, q.Encode())
}

// elutaTitleLinkSelectors is shared between the title extraction and the
// href/click-target lookup so both address the same anchor.
var elutaTitleLinkSelectors = []string{"h2.title a", "a.lk-title", "h3 a"}

func (e *Eluta) LocateJobCards(doc *goquery.Document, listingHost string) ([]Card, error) {
	matched, sel := firstNonEmpty(doc, elutaCardSelectors...)
	if sel == nil {
		return nil, noCardsErr(e.Name())
	}
	cards := make([]Card, 0, sel.Length())
	sel.Each(func(i int, s *goquery.Selection) {
		cards = append(cards, Card{Selection: s, ListingHost: listingHost, CardSelector: matched, Index: i})
	})
	return cards, nil
}

func (e *Eluta) ExtractBasicFields(card Card) (PartialRecord, bool) {
	s := card.Selection
	title := strings.TrimSpace(firstText(s, elutaTitleLinkSelectors...))
	company := strings.TrimSpace(firstText(s, "span.organization", "div.company", ".lk-company"))
	location := strings.TrimSpace(firstText(s, "span.location", ".lk-location"))
	if title == "" || company == "" {
		return PartialRecord{}, false
	}
	href, _ := firstSelection(s, elutaTitleLinkSelectors...).Attr("href")
	link := resolver.LinkHandle{Href: href, ListingHost: card.ListingHost}
	if !isNavigableHref(href) {
		if anchor := firstMatchingSelector(s, elutaTitleLinkSelectors...); anchor != "" {
			link.ClickSelector = clickSelector(card, anchor)
		}
	}
	return PartialRecord{
		Title:       title,
		Company:     company,
		Location:    location,
		SalaryText:  strings.TrimSpace(firstText(s, "span.salary")),
		PostedText:  strings.TrimSpace(firstText(s, "span.date", ".lk-date")),
		Summary:     strings.TrimSpace(firstText(s, "div.summary", ".lk-summary")),
		SummaryHTML: firstHTML(s, "div.summary", ".lk-summary"),
		Link:        link,
	}, true
}

func (e *Eluta) Paginate(state PageState) PaginationResult {
	if state.Doc == nil {
		return PaginationResult{End: true}
	}
	next := state.Doc.Find("a.next-page, a[rel=next]").First()
	href, ok := next.Attr("href")
	if !ok || href == "" {
		return PaginationResult{End: true}
	}
	return PaginationResult{NextURL: href}
}

func firstText(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if found := s.Find(sel); found.Length() > 0 {
			return found.First().Text()
		}
	}
	return ""
}

func firstSelection(s *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if found := s.Find(sel); found.Length() > 0 {
			return found.First()
		}
	}
	return s.First()
}

// firstHTML returns the raw inner HTML of the first matching selector,
// preserved (unlike firstText) so the caller can run it through a
// markdown converter instead of losing emphasis/list structure.
func firstHTML(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if found := s.Find(sel); found.Length() > 0 {
			html, err := found.First().Html()
			if err == nil {
				return html
			}
		}
	}
	return ""
}
