package sites

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/huntline/huntline/internal/scraper/resolver"
)

var indeedCardSelectors = []string{
	"div.job_seen_beacon",
	"td.resultContent",
	"div.jobsearch-SerpJobCard",
}

type Indeed struct{ Host string }

func NewIndeed() *Indeed { return &Indeed{Host: "www.indeed.com"} }

func (a *Indeed) Name() string { return "indeed" }

func (a *Indeed) BuildSearchURL(keyword, location string, page int) string {
	q := url.Values{}
	q.Set("q", keyword)
	if location != "" {
		q.Set("l", location)
	}
	if page > 1 {
		q.Set("start", strconv.Itoa((page-1)*10))
	}
	return fmt.Sprintf("https://%s/jobs?%s", a.Host, q.Encode())
}

var indeedTitleLinkSelectors = []string{"h2.jobTitle a", "a.jcs-JobTitle"}

func (a *Indeed) LocateJobCards(doc *goquery.Document, listingHost string) ([]Card, error) {
	matched, sel := firstNonEmpty(doc, indeedCardSelectors...)
	if sel == nil {
		return nil, noCardsErr(a.Name())
	}
	cards := make([]Card, 0, sel.Length())
	sel.Each(func(i int, s *goquery.Selection) {
		cards = append(cards, Card{Selection: s, ListingHost: listingHost, CardSelector: matched, Index: i})
	})
	return cards, nil
}

func (a *Indeed) ExtractBasicFields(card Card) (PartialRecord, bool) {
	s := card.Selection
	title := strings.TrimSpace(firstText(s, "h2.jobTitle span", "a.jcs-JobTitle"))
	company := strings.TrimSpace(firstText(s, "span.companyName", "[data-testid=company-name]"))
	location := strings.TrimSpace(firstText(s, "div.companyLocation", "[data-testid=text-location]"))
	if title == "" || company == "" {
		return PartialRecord{}, false
	}
	href, _ := firstSelection(s, indeedTitleLinkSelectors...).Attr("href")
	link := resolver.LinkHandle{Href: href, ListingHost: card.ListingHost}
	if !isNavigableHref(href) {
		if anchor := firstMatchingSelector(s, indeedTitleLinkSelectors...); anchor != "" {
			link.ClickSelector = clickSelector(card, anchor)
		}
	}
	return PartialRecord{
		Title:       title,
		Company:     company,
		Location:    location,
		SalaryText:  strings.TrimSpace(firstText(s, "div.salary-snippet", "[data-testid=attribute_snippet_testid]")),
		PostedText:  strings.TrimSpace(firstText(s, "span.date")),
		Summary:     strings.TrimSpace(firstText(s, "div.job-snippet")),
		SummaryHTML: firstHTML(s, "div.job-snippet"),
		Link:        link,
	}, true
}

func (a *Indeed) Paginate(state PageState) PaginationResult {
	if state.Doc == nil {
		return PaginationResult{End: true}
	}
	next := state.Doc.Find("a[aria-label='Next Page'], a[data-testid=pagination-page-next]").First()
	href, ok := next.Attr("href")
	if !ok || href == "" {
		return PaginationResult{End: true}
	}
	return PaginationResult{NextURL: href}
}
