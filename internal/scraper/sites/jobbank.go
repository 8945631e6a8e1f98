package sites

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/huntline/huntline/internal/scraper/resolver"
)

var jobBankCardSelectors = []string{
	"article.action-buttons",
	"div.results-jobs article",
}

// JobBank is Canada's Government of Canada job board (jobbank.gc.ca),
// referenced generically in the original source's job-bank handling.
type JobBank struct{ Host string }

func NewJobBank() *JobBank { return &JobBank{Host: "www.jobbank.gc.ca"} }

func (a *JobBank) Name() string { return "jobbank" }

func (a *JobBank) BuildSearchURL(keyword, location string, page int) string {
	q := url.Values{}
	q.Set("searchstring", keyword)
	if location != "" {
		q.Set("locationstring", location)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return fmt.Sprintf("https://%s/jobsearch/jobsearch?%s", a.Host, q.Encode())
}

func (a *JobBank) LocateJobCards(doc *goquery.Document, listingHost string) ([]Card, error) {
	matched, sel := firstNonEmpty(doc, jobBankCardSelectors...)
	if sel == nil {
		return nil, noCardsErr(a.Name())
	}
	cards := make([]Card, 0, sel.Length())
	sel.Each(func(i int, s *goquery.Selection) {
		cards = append(cards, Card{Selection: s, ListingHost: listingHost, CardSelector: matched, Index: i})
	})
	return cards, nil
}

func (a *JobBank) ExtractBasicFields(card Card) (PartialRecord, bool) {
	s := card.Selection
	title := strings.TrimSpace(firstText(s, "span.noctitle"))
	company := strings.TrimSpace(firstText(s, "li.business"))
	location := strings.TrimSpace(firstText(s, "li.location"))
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
		Title:      title,
		Company:    company,
		Location:   location,
		SalaryText: strings.TrimSpace(firstText(s, "li.salary")),
		PostedText: strings.TrimSpace(firstText(s, "li.date")),
		Link:       link,
	}, true
}

func (a *JobBank) Paginate(state PageState) PaginationResult {
	if state.Doc == nil {
		return PaginationResult{End: true}
	}
	next := state.Doc.Find("a[title='Next Page']").First()
	href, ok := next.Attr("href")
	if !ok || href == "" {
		return PaginationResult{End: true}
	}
	return PaginationResult{NextURL: href}
}
