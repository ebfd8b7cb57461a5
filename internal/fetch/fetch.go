// Package fetch retrieves visible page text with a tiered strategy:
// plain HTTP first, a headless-browser fallback for script-heavy pages.
package fetch

import (
	"context"
	"strings"
)

// Fetcher fetches the visible text of a single URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Name() string
}

// defaultRenderMarkers indicate a page that only renders client-side.
// Overridable via fetch.render_markers in config.
var defaultRenderMarkers = []string{
	"enable javascript",
	"you need to enable",
	"loading...",
	"redirecting",
	"checking your browser",
}

// NeedsRendering reports whether static text looks like a client-side
// rendered shell: too short to be real content, or carrying one of the
// case-insensitive markers.
func NeedsRendering(text string, minLen int, markers []string) bool {
	if minLen <= 0 {
		minLen = 200
	}
	if len(markers) == 0 {
		markers = defaultRenderMarkers
	}

	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minLen {
		return true
	}

	lower := strings.ToLower(trimmed)
	for _, m := range markers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// collapseWhitespace joins text on single spaces, dropping runs of
// whitespace left over from markup stripping.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
