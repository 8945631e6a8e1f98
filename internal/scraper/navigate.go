package scraper

import (
	"context"

	"github.com/chromedp/chromedp"
)

// navigateAndCapture drives an automated browser context to pageURL and
// returns its rendered HTML, grounded on the teacher's chromedp navigation
// idiom (see browserpool.createInstance's startup probe).
func navigateAndCapture(ctx context.Context, pageURL string) (string, error) {
	var html string
	err := chromedp.Run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.OuterHTML("html", &html),
	)
	return html, err
}
