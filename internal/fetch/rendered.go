package fetch

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
)

// RenderedFetcher loads a page in headless Chrome and extracts the
// rendered body text. The escalation path for pages the static fetcher
// can't read; each Fetch runs in its own browser session which is torn
// down on every exit path.
type RenderedFetcher struct {
	timeout   time.Duration // outer bound on the whole session
	settle    time.Duration // wait after body is ready, lets late scripts run
	userAgent string
}

// RenderedOption configures a RenderedFetcher.
type RenderedOption func(*RenderedFetcher)

// WithRenderTimeout overrides the default 15s session timeout.
func WithRenderTimeout(d time.Duration) RenderedOption {
	return func(f *RenderedFetcher) { f.timeout = d }
}

// WithSettleDelay overrides the default 3s post-load settle delay.
func WithSettleDelay(d time.Duration) RenderedOption {
	return func(f *RenderedFetcher) { f.settle = d }
}

// WithRenderUserAgent overrides the browser User-Agent.
func WithRenderUserAgent(ua string) RenderedOption {
	return func(f *RenderedFetcher) { f.userAgent = ua }
}

// NewRenderedFetcher creates a RenderedFetcher with sensible defaults.
func NewRenderedFetcher(opts ...RenderedOption) *RenderedFetcher {
	f := &RenderedFetcher{
		timeout:   15 * time.Second,
		settle:    3 * time.Second,
		userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *RenderedFetcher) Name() string { return "rendered" }

// Fetch navigates to the URL in a fresh headless session, waits for the
// body plus the settle delay, and returns the rendered visible text.
func (f *RenderedFetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(f.userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	runCtx, cancelRun := context.WithTimeout(tabCtx, f.timeout+f.settle)
	defer cancelRun()

	var text string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(f.settle),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", eris.Wrapf(err, "rendered: session for %s", targetURL)
	}

	return collapseWhitespace(text), nil
}
