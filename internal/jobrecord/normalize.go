package jobrecord

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	punctRe      = regexp.MustCompile(`[^\w\s-]`)
)

// trackingParamPrefixes name the query parameters (by prefix) stripped from a
// URL's query string before it is used for fingerprinting or comparison, so a
// tracked and untracked link to the same posting fold to one fingerprint.
var trackingParamPrefixes = []string{"utm_", "gclid", "fbclid", "session", "sid", "ref"}

func tokenize(s string) []string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	s = punctRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.Fields(s)
}

// normalizeTitle lowercases, collapses whitespace, strips punctuation, and
// removes a leading run of seniority/qualifier stop-prefixes.
func normalizeTitle(title string) string {
	tokens := tokenize(title)
	start := 0
	for start < len(tokens) && isStopPrefix(tokens[start]) {
		start++
	}
	if start == len(tokens) {
		// Title was entirely stop-prefixes (unlikely); keep the full token
		// list rather than normalizing to empty.
		start = 0
	}
	return strings.Join(tokens[start:], " ")
}

func isStopPrefix(tok string) bool {
	for _, p := range stopPrefixes {
		if tok == p {
			return true
		}
	}
	return false
}

func normalizeCompany(company string) string {
	return strings.Join(tokenize(company), " ")
}

func normalizeLocation(location string) string {
	return strings.Join(tokenize(location), " ")
}

// normalizeURL lowercases the host, strips the fragment, removes tracking
// query parameters, and sorts remaining query parameters for a stable
// representation. If the resulting path is empty, the normalized form is
// host-only.
func normalizeURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	u.Scheme = strings.ToLower(u.Scheme)

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			lk := strings.ToLower(key)
			for _, prefix := range trackingParamPrefixes {
				if strings.HasPrefix(lk, prefix) {
					q.Del(key)
					break
				}
			}
		}
		u.RawQuery = q.Encode()
	}

	if u.Path == "" || u.Path == "/" {
		return u.Scheme + "://" + u.Host
	}
	out := u.Scheme + "://" + u.Host + u.Path
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}
