// Package aggregate combines a provider's pages into one text blob with
// provenance, either by crawling the site or from an explicit URL list.
package aggregate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/carescout/carescout/internal/links"
	"github.com/carescout/carescout/internal/model"
)

// PageFetcher fetches a single page with the tiered strategy. Satisfied
// by fetch.SmartFetcher.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, role model.PageRole) model.PageContent
}

// Aggregator orchestrates fetching and link discovery for one provider.
// Pages are fetched strictly one at a time; the limiter spaces requests
// to stay polite toward third-party sites.
type Aggregator struct {
	fetcher    PageFetcher
	html       links.HTMLFetcher
	filter     *links.Filter
	minContent int
	limiter    *rate.Limiter
}

// New creates an Aggregator. minContent is the minimum text length for
// a subpage to be worth keeping (default 200); reqPerSec bounds the
// request rate (default 2/s).
func New(fetcher PageFetcher, html links.HTMLFetcher, filter *links.Filter, minContent int, reqPerSec float64) *Aggregator {
	if minContent <= 0 {
		minContent = 200
	}
	if reqPerSec <= 0 {
		reqPerSec = 2.0
	}
	return &Aggregator{
		fetcher:    fetcher,
		html:       html,
		filter:     filter,
		minContent: minContent,
		limiter:    rate.NewLimiter(rate.Limit(reqPerSec), 1),
	}
}

// FromSite fetches the homepage plus up to maxPages-1 discovered,
// filtered subpages. The homepage is always included; subpages below
// the content threshold or failing to fetch are skipped and logged,
// never retried.
func (a *Aggregator) FromSite(ctx context.Context, baseURL string, maxPages int) model.AggregatedContent {
	if maxPages < 1 {
		maxPages = 1
	}

	agg := model.AggregatedContent{
		BaseURL: baseURL,
		Mode:    model.AggSite,
	}

	home := a.fetcher.Fetch(ctx, baseURL, model.RoleHomepage)
	agg.Pages = append(agg.Pages, home)
	if home.Method == model.FetchFailed {
		agg.FailedURLs = append(agg.FailedURLs, baseURL)
	} else {
		agg.ScrapedURLs = append(agg.ScrapedURLs, baseURL)
	}

	if maxPages > 1 {
		subpages := a.subpageURLs(ctx, baseURL, maxPages-1)
		for _, u := range subpages {
			if err := a.limiter.Wait(ctx); err != nil {
				break
			}

			page := a.fetcher.Fetch(ctx, u, model.RoleSubpage)
			if page.Method == model.FetchFailed || page.Len() < a.minContent {
				zap.L().Debug("aggregate: skipping subpage",
					zap.String("url", u),
					zap.String("method", string(page.Method)),
					zap.Int("length", page.Len()),
				)
				agg.FailedURLs = append(agg.FailedURLs, u)
				continue
			}

			agg.Pages = append(agg.Pages, page)
			agg.ScrapedURLs = append(agg.ScrapedURLs, u)
		}
	}

	agg.CombinedText = combine(agg.Pages)

	zap.L().Info("aggregate: site crawl complete",
		zap.String("base", baseURL),
		zap.Int("pages", len(agg.ScrapedURLs)),
		zap.Int("failed", len(agg.FailedURLs)),
		zap.Int("text_length", len(agg.CombinedText)),
	)

	return agg
}

// FromURLList fetches an explicit caller-supplied URL list (manually
// curated additional sites, social pages). A single-URL list degrades
// to the site path with a one-page budget; two or more URLs are fetched
// as-is in the supplied order without discovery.
func (a *Aggregator) FromURLList(ctx context.Context, urls []string) model.AggregatedContent {
	if len(urls) == 1 {
		return a.FromSite(ctx, urls[0], 1)
	}

	agg := model.AggregatedContent{Mode: model.AggURLList}

	for i, u := range urls {
		if i > 0 {
			if err := a.limiter.Wait(ctx); err != nil {
				break
			}
		}

		page := a.fetcher.Fetch(ctx, u, model.RoleSubpage)
		if page.Method == model.FetchFailed || page.Len() < a.minContent {
			zap.L().Debug("aggregate: skipping supplied url",
				zap.String("url", u),
				zap.Int("length", page.Len()),
			)
			agg.FailedURLs = append(agg.FailedURLs, u)
			continue
		}

		agg.Pages = append(agg.Pages, page)
		agg.ScrapedURLs = append(agg.ScrapedURLs, u)
	}

	agg.CombinedText = combine(agg.Pages)

	zap.L().Info("aggregate: url list complete",
		zap.Int("provided", len(urls)),
		zap.Int("scraped", len(agg.ScrapedURLs)),
		zap.Int("failed", len(agg.FailedURLs)),
	)

	return agg
}

// subpageURLs discovers and filters in-site links, truncated to budget.
func (a *Aggregator) subpageURLs(ctx context.Context, baseURL string, budget int) []string {
	discovered, err := links.Discover(ctx, a.html, baseURL)
	if err != nil {
		zap.L().Warn("aggregate: link discovery failed",
			zap.String("base", baseURL),
			zap.Error(err),
		)
		return nil
	}

	filtered := a.filter.Apply(discovered)
	if len(filtered) > budget {
		filtered = filtered[:budget]
	}
	return filtered
}

// combine concatenates page texts, each preceded by a provenance header
// naming its source URL. Pages with no text contribute nothing.
func combine(pages []model.PageContent) string {
	var b strings.Builder
	for _, p := range pages {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		fmt.Fprintf(&b, "--- Content from %s ---\n%s\n\n", p.URL, p.Text)
	}
	return strings.TrimSpace(b.String())
}
