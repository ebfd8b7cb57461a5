package aggregate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carescout/carescout/internal/links"
	"github.com/carescout/carescout/internal/model"
)

// fakePages maps URL → text; empty text means a failed fetch.
type fakePages struct {
	pages   map[string]string
	fetched []string
}

func (f *fakePages) Fetch(_ context.Context, url string, role model.PageRole) model.PageContent {
	f.fetched = append(f.fetched, url)
	text := f.pages[url]
	method := model.FetchStatic
	if text == "" {
		method = model.FetchFailed
	}
	return model.PageContent{URL: url, Text: text, Method: method, Role: role}
}

type fakeHTML struct {
	html string
	err  error
}

func (f *fakeHTML) FetchHTML(_ context.Context, _ string) (string, error) {
	return f.html, f.err
}

func longText(seed string) string {
	return strings.Repeat(seed+" ", 60)
}

func newTestAggregator(fp *fakePages, hf *fakeHTML) *Aggregator {
	// High request rate keeps tests fast.
	return New(fp, hf, links.NewFilter(nil, nil), 200, 1000)
}

func TestFromSiteRespectsPageBudget(t *testing.T) {
	base := "https://sprouts.example.com"
	hf := &fakeHTML{html: `
		<a href="/our-program">p</a>
		<a href="/staff">s</a>
		<a href="/daily-menu">m</a>
		<a href="/gallery">g</a>
		<a href="/events">e</a>`}
	fp := &fakePages{pages: map[string]string{
		base:                 longText("home"),
		base + "/our-program": longText("program"),
		base + "/staff":       longText("staff"),
		base + "/daily-menu":  longText("menu"),
		base + "/gallery":     longText("gallery"),
		base + "/events":      longText("events"),
	}}

	agg := newTestAggregator(fp, hf).FromSite(context.Background(), base, 3)

	// Homepage + at most 2 subpages, never more.
	assert.Len(t, fp.fetched, 3)
	assert.Equal(t, base, fp.fetched[0])
	assert.Len(t, agg.Pages, 3)
	assert.Equal(t, model.RoleHomepage, agg.Pages[0].Role)
}

func TestFromSitePriorityOrdering(t *testing.T) {
	base := "https://sprouts.example.com"
	hf := &fakeHTML{html: `
		<a href="/gallery">g</a>
		<a href="/our-program">p</a>`}
	fp := &fakePages{pages: map[string]string{
		base:                 longText("home"),
		base + "/our-program": longText("program"),
		base + "/gallery":     longText("gallery"),
	}}

	agg := newTestAggregator(fp, hf).FromSite(context.Background(), base, 2)

	// The priority page wins the single subpage slot despite appearing
	// later on the homepage.
	assert.Equal(t, []string{base, base + "/our-program"}, agg.ScrapedURLs)
}

func TestFromSiteSkipsThinSubpages(t *testing.T) {
	base := "https://sprouts.example.com"
	hf := &fakeHTML{html: `<a href="/our-program">p</a>`}
	fp := &fakePages{pages: map[string]string{
		base:                 longText("home"),
		base + "/our-program": "too short",
	}}

	agg := newTestAggregator(fp, hf).FromSite(context.Background(), base, 3)

	assert.Equal(t, []string{base}, agg.ScrapedURLs)
	assert.Contains(t, agg.FailedURLs, base+"/our-program")
	assert.Len(t, agg.Pages, 1)
}

func TestFromSiteDiscoveryFailure(t *testing.T) {
	base := "https://sprouts.example.com"
	hf := &fakeHTML{err: errors.New("unreachable")}
	fp := &fakePages{pages: map[string]string{base: longText("home")}}

	agg := newTestAggregator(fp, hf).FromSite(context.Background(), base, 5)

	// Homepage still aggregated on its own.
	assert.Equal(t, []string{base}, agg.ScrapedURLs)
	assert.False(t, agg.Empty())
}

func TestFromSiteHomepageFailed(t *testing.T) {
	base := "https://down.example.com"
	hf := &fakeHTML{err: errors.New("unreachable")}
	fp := &fakePages{pages: map[string]string{}}

	agg := newTestAggregator(fp, hf).FromSite(context.Background(), base, 3)

	assert.Contains(t, agg.FailedURLs, base)
	assert.True(t, agg.Empty())
}

func TestCombineProvenanceHeaders(t *testing.T) {
	text := combine([]model.PageContent{
		{URL: "https://a.com", Text: "home text"},
		{URL: "https://a.com/program", Text: "program text"},
		{URL: "https://a.com/empty", Text: "   "},
	})

	assert.Contains(t, text, "--- Content from https://a.com ---\nhome text")
	assert.Contains(t, text, "--- Content from https://a.com/program ---\nprogram text")
	assert.NotContains(t, text, "a.com/empty")
	// Homepage block comes first.
	assert.True(t, strings.Index(text, "home text") < strings.Index(text, "program text"))
}

func TestFromURLListExplicit(t *testing.T) {
	fp := &fakePages{pages: map[string]string{
		"https://a.com":            longText("main"),
		"https://facebook.com/a":   longText("social"),
		"https://broken.example":   "",
	}}
	a := newTestAggregator(fp, &fakeHTML{})

	urls := []string{"https://a.com", "https://facebook.com/a", "https://broken.example"}
	agg := a.FromURLList(context.Background(), urls)

	assert.Equal(t, model.AggURLList, agg.Mode)
	assert.Equal(t, []string{"https://a.com", "https://facebook.com/a"}, agg.ScrapedURLs)
	assert.Equal(t, []string{"https://broken.example"}, agg.FailedURLs)
	// Caller-supplied order is preserved; no discovery happened.
	assert.Equal(t, urls, fp.fetched)
}

func TestFromURLListSingleDegradesToSite(t *testing.T) {
	base := "https://a.com"
	fp := &fakePages{pages: map[string]string{base: longText("main")}}
	a := newTestAggregator(fp, &fakeHTML{html: "<a href='/our-program'>p</a>"})

	agg := a.FromURLList(context.Background(), []string{base})

	assert.Equal(t, model.AggSite, agg.Mode)
	assert.Equal(t, base, agg.BaseURL)
	// One-page budget: the homepage only, no discovered subpages fetched.
	assert.Equal(t, []string{base}, fp.fetched)
}
