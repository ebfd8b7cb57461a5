package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

const maxBodyBytes = 512 * 1024

// StaticFetcher fetches a page via plain HTTP and strips it to visible
// text. Free, fast, and sufficient for most provider sites.
type StaticFetcher struct {
	client    *http.Client
	userAgent string
}

// StaticOption configures a StaticFetcher.
type StaticOption func(*StaticFetcher)

// WithTimeout overrides the default 10s request timeout.
func WithTimeout(d time.Duration) StaticOption {
	return func(f *StaticFetcher) { f.client.Timeout = d }
}

// WithUserAgent overrides the default browser-like User-Agent header.
func WithUserAgent(ua string) StaticOption {
	return func(f *StaticFetcher) { f.userAgent = ua }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) StaticOption {
	return func(f *StaticFetcher) { f.client = hc }
}

// NewStaticFetcher creates a StaticFetcher with sensible defaults.
func NewStaticFetcher(opts ...StaticOption) *StaticFetcher {
	f := &StaticFetcher{
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		userAgent: "Mozilla/5.0 (compatible; CareScout/1.0)",
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *StaticFetcher) Name() string { return "static" }

// Fetch GETs the URL and returns its visible text with markup, scripts
// and styles stripped and whitespace collapsed.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "static: create request")
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "static: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", eris.Errorf("static: status %d for %s", resp.StatusCode, targetURL)
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	text, err := VisibleText(body)
	if err != nil {
		return "", eris.Wrap(err, "static: parse html")
	}

	return text, nil
}

// VisibleText parses HTML and extracts the human-visible body text:
// script, style and noscript nodes removed, remaining text joined on
// single spaces.
func VisibleText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript").Remove()

	sel := doc.Find("body")
	var text string
	if sel.Length() > 0 {
		text = sel.Text()
	} else {
		text = doc.Text()
	}

	return collapseWhitespace(text), nil
}

// FetchHTML GETs the URL and returns the raw HTML body. Used by link
// discovery, which needs the markup rather than the text.
func (f *StaticFetcher) FetchHTML(ctx context.Context, targetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "static: create request")
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "static: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", eris.Errorf("static: status %d for %s", resp.StatusCode, targetURL)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return "", eris.Wrap(err, "static: read body")
	}
	return sb.String(), nil
}
