package fetch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carescout/carescout/internal/model"
)

// fakeFetcher returns a canned result and counts calls.
type fakeFetcher struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func (f *fakeFetcher) Name() string { return f.name }

func TestSmartFetcherStaticSufficient(t *testing.T) {
	t.Parallel()
	static := &fakeFetcher{name: "static", text: strings.Repeat("program details ", 30)}
	rendered := &fakeFetcher{name: "rendered", text: "should not be used"}

	sf := NewSmartFetcher(static, rendered, 200, nil)
	page := sf.Fetch(context.Background(), "https://a.com", model.RoleHomepage)

	assert.Equal(t, model.FetchStatic, page.Method)
	assert.Equal(t, static.text, page.Text)
	assert.Equal(t, 0, rendered.calls)
}

func TestSmartFetcherEscalatesOnShell(t *testing.T) {
	t.Parallel()
	static := &fakeFetcher{name: "static", text: "Loading..."}
	rendered := &fakeFetcher{name: "rendered", text: strings.Repeat("rendered content ", 30)}

	sf := NewSmartFetcher(static, rendered, 200, nil)
	page := sf.Fetch(context.Background(), "https://a.com", model.RoleHomepage)

	assert.Equal(t, model.FetchRendered, page.Method)
	assert.Equal(t, rendered.text, page.Text)
	assert.Equal(t, 1, static.calls)
	assert.Equal(t, 1, rendered.calls)
}

func TestSmartFetcherEscalatesOnStaticError(t *testing.T) {
	t.Parallel()
	static := &fakeFetcher{name: "static", err: errors.New("timeout")}
	rendered := &fakeFetcher{name: "rendered", text: strings.Repeat("rendered content ", 30)}

	sf := NewSmartFetcher(static, rendered, 200, nil)
	page := sf.Fetch(context.Background(), "https://a.com", model.RoleSubpage)

	assert.Equal(t, model.FetchRendered, page.Method)
	assert.Equal(t, model.RoleSubpage, page.Role)
}

func TestSmartFetcherBothFail(t *testing.T) {
	t.Parallel()
	static := &fakeFetcher{name: "static", text: "stub"}
	rendered := &fakeFetcher{name: "rendered", err: errors.New("chrome launch failed")}

	sf := NewSmartFetcher(static, rendered, 200, nil)
	page := sf.Fetch(context.Background(), "https://a.com", model.RoleHomepage)

	assert.Equal(t, model.FetchFailed, page.Method)
	// Static stub text is preserved even though the method is failed.
	assert.Equal(t, "stub", page.Text)
}
