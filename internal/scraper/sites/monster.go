package sites

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/huntline/huntline/internal/scraper/resolver"
)

// monsterCardSelectors is grounded directly on the original source's
// monster_ca_integration.py, one of only two sites with dedicated Python
// integration code (Eluta is the other).
var monsterCardSelectors = []string{
	"section.card-content",
	"article[data-testid=svx-job-card]",
	"div.job-cardstyle__JobCardComponent",
}

type Monster struct {
	Host    string
	WarmUp  bool // off by default; no code reads it, and the adapter has no warm-up step
}

func NewMonster() *Monster { return &Monster{Host: "www.monster.ca"} }

func (a *Monster) Name() string { return "monster" }

func (a *Monster) BuildSearchURL(keyword, location string, page int) string {
	q := url.Values{}
	q.Set("q", keyword)
	if location != "" {
		q.Set("where", location)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return fmt.Sprintf("https://%s/jobs/search?%s", a.Host, q.Encode())
}

var monsterTitleLinkSelectors = []string{"a[data-testid=jobTitle]", "a.title"}

func (a *Monster) LocateJobCards(doc *goquery.Document, listingHost string) ([]Card, error) {
	matched, sel := firstNonEmpty(doc, monsterCardSelectors...)
	if sel == nil {
		return nil, noCardsErr(a.Name())
	}
	cards := make([]Card, 0, sel.Length())
	sel.Each(func(i int, s *goquery.Selection) {
		cards = append(cards, Card{Selection: s, ListingHost: listingHost, CardSelector: matched, Index: i})
	})
	return cards, nil
}

func (a *Monster) ExtractBasicFields(card Card) (PartialRecord, bool) {
	s := card.Selection
	title := strings.TrimSpace(firstText(s, "h2[data-testid=jobTitle]", "h3.title"))
	company := strings.TrimSpace(firstText(s, "span[data-testid=company]", "div.company"))
	location := strings.TrimSpace(firstText(s, "span[data-testid=jobDetailLocation]", "div.location"))
	if title == "" || company == "" {
		return PartialRecord{}, false
	}
	href, _ := firstSelection(s, monsterTitleLinkSelectors...).Attr("href")
	link := resolver.LinkHandle{Href: href, ListingHost: card.ListingHost}
	if !isNavigableHref(href) {
		if anchor := firstMatchingSelector(s, monsterTitleLinkSelectors...); anchor != "" {
			link.ClickSelector = clickSelector(card, anchor)
		}
	}
	return PartialRecord{
		Title:      title,
		Company:    company,
		Location:   location,
		SalaryText: strings.TrimSpace(firstText(s, "div[data-testid=salary]")),
		PostedText: strings.TrimSpace(firstText(s, "span[data-testid=postedDate]")),
		Link:       link,
	}, true
}

func (a *Monster) Paginate(state PageState) PaginationResult {
	if state.Doc == nil {
		return PaginationResult{End: true}
	}
	next := state.Doc.Find("a[data-testid=pagination-next]").First()
	href, ok := next.Attr("href")
	if !ok || href == "" {
		return PaginationResult{End: true}
	}
	return PaginationResult{NextURL: href}
}
