package model

import "strings"

// FetchMethod records which fetch path produced a page's text.
type FetchMethod string

const (
	FetchStatic   FetchMethod = "static"
	FetchRendered FetchMethod = "rendered"
	FetchFailed   FetchMethod = "failed"
)

// PageRole distinguishes the homepage from discovered subpages.
type PageRole string

const (
	RoleHomepage PageRole = "homepage"
	RoleSubpage  PageRole = "subpage"
)

// PageContent is the visible text of a single fetched page. Transient;
// never persisted individually.
type PageContent struct {
	URL    string      `json:"url"`
	Text   string      `json:"text"`
	Method FetchMethod `json:"method"`
	Role   PageRole    `json:"role"`
}

// Len returns the length of the page text in bytes.
func (p PageContent) Len() int { return len(p.Text) }

// AggregationMode records which aggregation path produced the content.
type AggregationMode string

const (
	AggSite    AggregationMode = "site"     // homepage + discovered subpages
	AggURLList AggregationMode = "url_list" // explicit caller-supplied URLs
)

// AggregatedContent is the combined text of a provider's pages, each
// block prefixed by a provenance header naming its source URL.
type AggregatedContent struct {
	BaseURL      string          `json:"base_url,omitempty"`
	Mode         AggregationMode `json:"mode"`
	Pages        []PageContent   `json:"pages"`
	CombinedText string          `json:"combined_text"`
	ScrapedURLs  []string        `json:"scraped_urls"`
	FailedURLs   []string        `json:"failed_urls,omitempty"`
}

// Empty reports whether aggregation produced no usable text.
func (a AggregatedContent) Empty() bool {
	return strings.TrimSpace(a.CombinedText) == ""
}

// PrimaryMethod returns the fetch method of the first successful page,
// or FetchFailed when no page succeeded.
func (a AggregatedContent) PrimaryMethod() FetchMethod {
	for _, p := range a.Pages {
		if p.Method != FetchFailed {
			return p.Method
		}
	}
	return FetchFailed
}
