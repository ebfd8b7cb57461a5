package fetch

import (
	"context"

	"go.uber.org/zap"

	"github.com/carescout/carescout/internal/model"
)

// SmartFetcher tries the static path first and escalates to the
// rendering path when the result looks like a client-side shell.
// Failures are absorbed: the returned PageContent carries whatever text
// was obtained and a Method of "failed" when neither path produced
// usable content. Callers never see an error from Fetch.
type SmartFetcher struct {
	static   Fetcher
	rendered Fetcher
	minLen   int
	markers  []string
}

// NewSmartFetcher combines a static and a rendered fetcher. minLen and
// markers drive the needs-rendering heuristic; zero/nil select the
// defaults.
func NewSmartFetcher(static, rendered Fetcher, minLen int, markers []string) *SmartFetcher {
	return &SmartFetcher{
		static:   static,
		rendered: rendered,
		minLen:   minLen,
		markers:  markers,
	}
}

// Fetch returns the page's visible text and the method that produced it.
func (f *SmartFetcher) Fetch(ctx context.Context, url string, role model.PageRole) model.PageContent {
	page := model.PageContent{URL: url, Role: role, Method: model.FetchFailed}

	staticText, err := f.static.Fetch(ctx, url)
	if err != nil {
		zap.L().Debug("fetch: static path failed",
			zap.String("url", url),
			zap.Error(err),
		)
	}

	if staticText != "" && !NeedsRendering(staticText, f.minLen, f.markers) {
		page.Text = staticText
		page.Method = model.FetchStatic
		return page
	}

	renderedText, err := f.rendered.Fetch(ctx, url)
	if err != nil {
		zap.L().Debug("fetch: rendered path failed",
			zap.String("url", url),
			zap.Error(err),
		)
	}

	if renderedText != "" {
		page.Text = renderedText
		page.Method = model.FetchRendered
		return page
	}

	// Neither path worked; keep whatever the static pass produced so the
	// caller can still decide it's worth something.
	page.Text = staticText
	return page
}
