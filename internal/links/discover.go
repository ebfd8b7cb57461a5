// Package links discovers and filters in-site links for a provider's
// website, feeding the multi-page aggregator a bounded, relevant page
// set.
package links

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// HTMLFetcher fetches the raw HTML of a URL. Satisfied by
// fetch.StaticFetcher.
type HTMLFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// skipSchemes are communication-protocol links that never lead to pages.
var skipSchemes = []string{"mailto:", "tel:", "sms:", "fax:", "javascript:", "whatsapp:", "skype:"}

// Discover fetches the base page and returns the normalized same-site
// links found on it, deduplicated in encounter order. The base URL
// itself and anything not strictly longer than it (a proxy for "the
// root again") are dropped.
func Discover(ctx context.Context, hf HTMLFetcher, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, eris.Wrapf(err, "links: parse base url %s", baseURL)
	}

	html, err := hf.FetchHTML(ctx, baseURL)
	if err != nil {
		return nil, eris.Wrap(err, "links: fetch base page")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "links: parse base page")
	}

	normalizedBase := normalize(base)

	seen := make(map[string]bool)
	var out []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || hasSkipScheme(href) {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)

		if !strings.EqualFold(abs.Host, base.Host) {
			return
		}

		link := normalize(abs)
		// Not strictly longer than the base means it's the root again.
		if link == normalizedBase || len(link) <= len(normalizedBase) {
			return
		}

		if !seen[link] {
			seen[link] = true
			out = append(out, link)
		}
	})

	zap.L().Debug("links: discovered",
		zap.String("base", baseURL),
		zap.Int("count", len(out)),
	)

	return out, nil
}

func hasSkipScheme(href string) bool {
	lower := strings.ToLower(href)
	for _, s := range skipSchemes {
		if strings.HasPrefix(lower, s) {
			return true
		}
	}
	return false
}

// normalize strips the fragment and any trailing slash, keeping the
// query string.
func normalize(u *url.URL) string {
	c := *u
	c.Fragment = ""
	s := c.String()
	return strings.TrimSuffix(s, "/")
}
