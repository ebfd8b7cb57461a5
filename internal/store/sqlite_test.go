package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carescout/carescout/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord() model.ExtractedRecord {
	return model.ExtractedRecord{
		AgesServed:        "2-5 years",
		Mandarin:          "Yes",
		MealsProvided:     "No",
		Curriculum:        "Montessori",
		CulturalDiversity: "High",
		StaffStability:    "Yes",
	}
}

func TestSaveAndLookup(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	miss, err := s.Lookup(ctx, "Sunshine Kids Academy")
	require.NoError(t, err)
	assert.Nil(t, miss)

	meta := model.RecordMeta{
		Method:       "static",
		PagesScraped: 3,
		ScrapedURLs:  []string{"https://example.com"},
	}
	require.NoError(t, s.Save(ctx, "Sunshine Kids Academy", sampleRecord(), meta))

	hit, err := s.Lookup(ctx, "Sunshine Kids Academy")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "sunshine_kids_academy", hit.Key)
	assert.Equal(t, "Sunshine Kids Academy", hit.Name)
	assert.Equal(t, sampleRecord(), hit.Record)
	assert.Equal(t, "static", hit.Meta.Method)
	assert.Equal(t, 3, hit.Meta.PagesScraped)
	assert.NotEmpty(t, hit.UpdatedAt)
}

func TestSaveUpserts(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "Little Stars", sampleRecord(), model.RecordMeta{}))

	updated := sampleRecord()
	updated.Mandarin = "No"
	require.NoError(t, s.Save(ctx, "Little Stars", updated, model.RecordMeta{}))

	hit, err := s.Lookup(ctx, "Little Stars")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "No", hit.Record.Mandarin)

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestLookupIsKeyedOnSanitizedName(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "Lil' Sprouts Daycare", sampleRecord(), model.RecordMeta{}))

	// Same sanitized key, different surface form.
	hit, err := s.Lookup(ctx, "lil  sprouts daycare")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "lil__sprouts_daycare", hit.Key)
}

func TestSaveTextAndGetText(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	text, err := s.GetText(ctx, "Nobody")
	require.NoError(t, err)
	assert.Empty(t, text)

	meta := model.RecordMeta{
		Method:      "static",
		ScrapedURLs: []string{"https://sunshine.example", "https://sunshine.example/programs"},
	}
	require.NoError(t, s.SaveText(ctx, "Sunshine Kids", "raw scraped text", meta))
	text, err = s.GetText(ctx, "Sunshine Kids")
	require.NoError(t, err)

	// The stored blob is self-describing: header first, then the text.
	assert.Contains(t, text, "URL: https://sunshine.example, https://sunshine.example/programs\n")
	assert.Contains(t, text, "Method: static\n")
	assert.Contains(t, text, "Scraped: ")
	assert.Contains(t, text, "raw scraped text")
	assert.Less(t, strings.Index(text, "URL:"), strings.Index(text, "raw scraped text"))

	require.NoError(t, s.SaveText(ctx, "Sunshine Kids", "newer text", meta))
	text, err = s.GetText(ctx, "Sunshine Kids")
	require.NoError(t, err)
	assert.Contains(t, text, "newer text")
	assert.NotContains(t, text, "raw scraped text")
}

func TestInvalidate(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "Gone Soon", sampleRecord(), model.RecordMeta{}))
	require.NoError(t, s.SaveText(ctx, "Gone Soon", "text", model.RecordMeta{}))

	existed, err := s.Invalidate(ctx, "Gone Soon")
	require.NoError(t, err)
	assert.True(t, existed)

	hit, err := s.Lookup(ctx, "Gone Soon")
	require.NoError(t, err)
	assert.Nil(t, hit)

	text, err := s.GetText(ctx, "Gone Soon")
	require.NoError(t, err)
	assert.Empty(t, text)

	existed, err = s.Invalidate(ctx, "Never Existed")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestClear(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "A", sampleRecord(), model.RecordMeta{}))
	require.NoError(t, s.Save(ctx, "B", sampleRecord(), model.RecordMeta{}))
	require.NoError(t, s.SaveText(ctx, "A", "text", model.RecordMeta{}))

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSanitizeKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Sunshine Kids", "sunshine_kids"},
		{"punctuation", "Lil' Sprouts & Co.", "lil__sprouts___co_"},
		{"already clean", "daycare123", "daycare123"},
		{"accents folded", "Crèche Éducative", "creche_educative"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SanitizeKey(tt.in))
		})
	}
}
