package sites

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const elutaSampleHTML = `
<html><body>
<div class="organic-job">
  <h2 class="title"><a href="/redirect?id=1">Python Developer</a></h2>
  <span class="organization">Acme Corp</span>
  <span class="location">Toronto, ON</span>
  <span class="salary">$90,000 - $110,000</span>
</div>
<div class="organic-job">
  <h2 class="title"><a href="https://jobs.othercorp.com/apply/7">Data Engineer</a></h2>
  <span class="organization">Other Corp</span>
  <span class="location">Remote</span>
</div>
</body></html>`

func TestElutaLocateAndExtract(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(elutaSampleHTML))
	require.NoError(t, err)

	e := NewEluta()
	cards, err := e.LocateJobCards(doc, e.Host)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	rec, ok := e.ExtractBasicFields(cards[0])
	require.True(t, ok)
	require.Equal(t, "Python Developer", rec.Title)
	require.Equal(t, "Acme Corp", rec.Company)
	require.Equal(t, "/redirect?id=1", rec.Link.Href)

	rec2, ok := e.ExtractBasicFields(cards[1])
	require.True(t, ok)
	require.Equal(t, "https://jobs.othercorp.com/apply/7", rec2.Link.Href)
}

// TestElutaClickSelectorForNonNavigableHref covers §4.C step 3's
// popup-canonicalization scenario: a card whose href is a JS-only
// placeholder must come back with a ClickSelector so Resolve can fall
// through to the click-and-capture path instead of silently dropping it.
func TestElutaClickSelectorForNonNavigableHref(t *testing.T) {
	const html = `
<html><body>
<div class="organic-job">
  <h2 class="title"><a href="#!">Platform Engineer</a></h2>
  <span class="organization">Acme Corp</span>
  <span class="location">Toronto, ON</span>
</div>
</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	e := NewEluta()
	cards, err := e.LocateJobCards(doc, e.Host)
	require.NoError(t, err)
	require.Len(t, cards, 1)

	rec, ok := e.ExtractBasicFields(cards[0])
	require.True(t, ok)
	require.Equal(t, "#!", rec.Link.Href)
	require.NotEmpty(t, rec.Link.ClickSelector)
	require.Equal(t, "div.organic-job:nth-of-type(1) h2.title a", rec.Link.ClickSelector)
}

func TestElutaLocateJobCardsReportsDriftOnEmptyPage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body></body></html>`))
	require.NoError(t, err)

	e := NewEluta()
	_, err = e.LocateJobCards(doc, e.Host)
	require.Error(t, err)
}
