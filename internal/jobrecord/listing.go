package jobrecord

import (
	"net/url"
	"strings"
)

// searchPatternParams are query parameters that mark a URL as a listing
// site's own search page rather than a canonical employer posting (spec
// §4.C policy: "self-links matching the search URL pattern (q=, pg=,
// posted=) are discarded").
var searchPatternParams = []string{"q", "pg", "posted", "page", "query"}

// IsListingSelfLink reports whether rawURL looks like the listing site's own
// search page (as opposed to a canonical employer URL), by host match
// against listingHost and the presence of search-pattern query parameters.
func IsListingSelfLink(rawURL, listingHost string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	sameHost := listingHost != "" && strings.EqualFold(u.Host, listingHost)
	if !sameHost && u.Host != "" {
		return false
	}
	q := u.Query()
	for _, p := range searchPatternParams {
		if q.Has(p) {
			return true
		}
	}
	return sameHost && u.Path == ""
}
