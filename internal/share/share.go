// Package share builds the social share link for the current chart.
package share

import (
	"net/url"
	"strings"

	"github.com/pkg/browser"

	"github.com/h0rv/shuhan/internal/querystate"
)

// IntentURL is the share-intent endpoint.
const IntentURL = "https://twitter.com/intent/tweet"

// Hashtag is appended to the share text.
const Hashtag = "#首班指名シミュレータ"

// PageURL returns the chart page for an encoded assignment.
func PageURL(site, encoded string) string {
	u, err := url.Parse(site)
	if err != nil || site == "" {
		return site
	}
	q := u.Query()
	q.Set(querystate.Param, encoded)
	u.RawQuery = q.Encode()
	return u.String()
}

// Text returns the share message for a coalition.
func Text(coalition string) string {
	if coalition == "" {
		return Hashtag
	}
	return strings.Join([]string{coalition, Hashtag}, " ")
}

// IntentLink returns the share-intent URL carrying the coalition name and the
// page URL.
func IntentLink(coalition, pageURL string) string {
	q := url.Values{}
	q.Set("text", Text(coalition))
	if pageURL != "" {
		q.Set("url", pageURL)
	}
	return IntentURL + "?" + q.Encode()
}

// Open launches the share link in the default browser. Failures are returned
// for the caller to log; sharing is fire and forget.
func Open(link string) error {
	return browser.OpenURL(link)
}
