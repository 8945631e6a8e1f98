package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRedirectWrapper(t *testing.T) {
	assert.True(t, isRedirectWrapper("https://www.eluta.ca/redirect?id=42"))
	assert.True(t, isRedirectWrapper("https://jobbank.gc.ca/out/click?id=1"))
	assert.False(t, isRedirectWrapper("https://jobs.examplecorp.com/apply/42"))
}

// TestResolveStep1ExternalHref verifies the first-success-wins order's step
// 1: an absolute href on a different host than the listing resolves without
// ever touching the click path.
func TestResolveStep1ExternalHref(t *testing.T) {
	r := New(nil, nil, 0, nil)
	got, err := r.Resolve(context.Background(), "https://www.eluta.ca/search?q=go", LinkHandle{
		Href:        "https://jobs.examplecorp.com/apply/42",
		ListingHost: "www.eluta.ca",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://jobs.examplecorp.com/apply/42", got)
}

// TestResolveStep2RedirectWrapper verifies step 2: a same-host href whose
// path is a redirect wrapper resolves directly too.
func TestResolveStep2RedirectWrapper(t *testing.T) {
	r := New(nil, nil, 0, nil)
	got, err := r.Resolve(context.Background(), "https://www.eluta.ca/search?q=go", LinkHandle{
		Href:        "/redirect?id=42",
		ListingHost: "www.eluta.ca",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://www.eluta.ca/redirect?id=42", got)
}

// TestResolveStep3SkippedWithoutClickSelector verifies that a listing-self
// href with no ClickSelector never reaches resolveViaClick (which would
// otherwise require a live browser from the pool).
func TestResolveStep3SkippedWithoutClickSelector(t *testing.T) {
	r := New(nil, nil, 0, nil)
	got, err := r.Resolve(context.Background(), "https://www.eluta.ca/search?q=go", LinkHandle{
		Href:        "#!",
		ListingHost: "www.eluta.ca",
	})
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

// TestChoosePopupOrFallback covers resolveViaClick's decision between a
// captured popup and the click target's own post-click location, the part
// of step 3 (§4.C) that doesn't require driving a real browser.
func TestChoosePopupOrFallback(t *testing.T) {
	cases := []struct {
		name        string
		popupURL    string
		currentURL  string
		listingHost string
		want        string
	}{
		{"popup wins over navigation", "https://jobs.examplecorp.com/apply/42", "https://www.eluta.ca/search?q=go", "www.eluta.ca", "https://jobs.examplecorp.com/apply/42"},
		{"navigation off listing host used as fallback", "", "https://jobs.examplecorp.com/apply/42", "www.eluta.ca", "https://jobs.examplecorp.com/apply/42"},
		{"navigation stayed on listing host, nothing resolved", "", "https://www.eluta.ca/search?q=go", "www.eluta.ca", ""},
		{"neither popup nor navigation", "", "", "www.eluta.ca", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := choosePopupOrFallback(tc.popupURL, tc.currentURL, tc.listingHost)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAbsoluteURL(t *testing.T) {
	got := absoluteURL("https://www.eluta.ca/search?q=python", "/redirect?id=42")
	assert.Equal(t, "https://www.eluta.ca/redirect?id=42", got)

	got = absoluteURL("https://www.eluta.ca/search?q=python", "https://jobs.examplecorp.com/apply/42")
	assert.Equal(t, "https://jobs.examplecorp.com/apply/42", got)
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "jobs.examplecorp.com", hostOf("https://jobs.examplecorp.com/apply/42"))
	assert.Equal(t, "", hostOf(""))
}
