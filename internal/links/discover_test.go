package links

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHTML struct {
	html string
	err  error
}

func (f *fakeHTML) FetchHTML(_ context.Context, _ string) (string, error) {
	return f.html, f.err
}

func TestDiscover(t *testing.T) {
	t.Parallel()
	hf := &fakeHTML{html: `<html><body>
		<a href="/programs">Programs</a>
		<a href="/programs/">Programs again</a>
		<a href="https://sprouts.example.com/staff#team">Staff</a>
		<a href="/enroll?year=2026">Enroll</a>
		<a href="https://other.example.org/away">External</a>
		<a href="mailto:info@sprouts.example.com">Mail</a>
		<a href="tel:+14255550100">Call</a>
		<a href="javascript:void(0)">JS</a>
		<a href="#top">Top</a>
		<a href="/">Home</a>
		<a href="https://sprouts.example.com">Root absolute</a>
	</body></html>`}

	urls, err := Discover(context.Background(), hf, "https://sprouts.example.com")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://sprouts.example.com/programs",
		"https://sprouts.example.com/staff",
		"https://sprouts.example.com/enroll?year=2026",
	}, urls)
}

func TestDiscoverFetchError(t *testing.T) {
	t.Parallel()
	hf := &fakeHTML{err: errors.New("unreachable")}
	_, err := Discover(context.Background(), hf, "https://sprouts.example.com")
	assert.Error(t, err)
}

func TestDiscoverBadBaseURL(t *testing.T) {
	t.Parallel()
	hf := &fakeHTML{html: "<html></html>"}
	_, err := Discover(context.Background(), hf, "://not-a-url")
	assert.Error(t, err)
}

func TestFilterApply(t *testing.T) {
	t.Parallel()
	f := NewFilter(nil, nil)

	in := []string{
		"https://a.com/our-story",       // regular
		"https://a.com/contact-us",      // denied
		"https://a.com/our-program",     // priority
		"https://a.com/privacy-policy",  // denied
		"https://a.com/daily-menu",      // priority
		"https://a.com/gallery",         // regular
		"https://a.com/brochure.pdf",    // denied
	}

	got := f.Apply(in)

	assert.Equal(t, []string{
		"https://a.com/our-program",
		"https://a.com/daily-menu",
		"https://a.com/our-story",
		"https://a.com/gallery",
	}, got)
}

func TestFilterCustomLists(t *testing.T) {
	t.Parallel()
	f := NewFilter([]string{"hidden"}, []string{"special"})

	got := f.Apply([]string{
		"https://a.com/plain",
		"https://a.com/hidden-page",
		"https://a.com/special-offer",
	})

	assert.Equal(t, []string{
		"https://a.com/special-offer",
		"https://a.com/plain",
	}, got)
}

func TestFilterExcluded(t *testing.T) {
	t.Parallel()
	f := NewFilter(nil, nil)
	assert.True(t, f.Excluded("https://a.com/CONTACT-US"))
	assert.False(t, f.Excluded("https://a.com/our-program"))
}
