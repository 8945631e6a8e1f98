package sites

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/huntline/huntline/internal/scraper/resolver"
)

var linkedinCardSelectors = []string{
	"div.base-card",
	"li.jobs-search-results__list-item",
	"div.job-search-card",
}

type LinkedIn struct{ Host string }

func NewLinkedIn() *LinkedIn { return &LinkedIn{Host: "www.linkedin.com"} }

func (a *LinkedIn) Name() string { return "linkedin" }

func (a *LinkedIn) BuildSearchURL(keyword, location string, page int) string {
	q := url.Values{}
	q.Set("keywords", keyword)
	if location != "" {
		q.Set("location", location)
	}
	if page > 1 {
		q.Set("start", strconv.Itoa((page-1)*25))
	}
	return fmt.Sprintf("https://%s/jobs/search?%s", a.Host, q.Encode())
}

var linkedinTitleLinkSelectors = []string{"a.base-card__full-link", "a.job-card-list__title"}

func (a *LinkedIn) LocateJobCards(doc *goquery.Document, listingHost string) ([]Card, error) {
	matched, sel := firstNonEmpty(doc, linkedinCardSelectors...)
	if sel == nil {
		return nil, noCardsErr(a.Name())
	}
	cards := make([]Card, 0, sel.Length())
	sel.Each(func(i int, s *goquery.Selection) {
		cards = append(cards, Card{Selection: s, ListingHost: listingHost, CardSelector: matched, Index: i})
	})
	return cards, nil
}

func (a *LinkedIn) ExtractBasicFields(card Card) (PartialRecord, bool) {
	s := card.Selection
	title := strings.TrimSpace(firstText(s, "h3.base-search-card__title", "a.job-card-list__title"))
	company := strings.TrimSpace(firstText(s, "h4.base-search-card__subtitle", "a.job-card-container__company-name"))
	location := strings.TrimSpace(firstText(s, "span.job-search-card__location", "li.job-card-container__metadata-item"))
	if title == "" || company == "" {
		return PartialRecord{}, false
	}
	href, _ := firstSelection(s, linkedinTitleLinkSelectors...).Attr("href")
	link := resolver.LinkHandle{Href: href, ListingHost: card.ListingHost}
	if !isNavigableHref(href) {
		if anchor := firstMatchingSelector(s, linkedinTitleLinkSelectors...); anchor != "" {
			link.ClickSelector = clickSelector(card, anchor)
		}
	}
	return PartialRecord{
		Title:      title,
		Company:    company,
		Location:   location,
		PostedText: strings.TrimSpace(firstText(s, "time.job-search-card__listdate")),
		Link:       link,
	}, true
}

func (a *LinkedIn) Paginate(state PageState) PaginationResult {
	if state.Doc == nil {
		return PaginationResult{End: true}
	}
	next := state.Doc.Find("button[aria-label='Next']").First()
	if next.Length() == 0 {
		return PaginationResult{End: true}
	}
	// LinkedIn's search pagination is offset-based rather than a next-page
	// href; Scraper advances the page counter itself and rebuilds the
	// search URL, so an empty NextURL with End=false signals "keep going".
	return PaginationResult{}
}
