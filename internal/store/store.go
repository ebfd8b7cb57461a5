// Package store persists extracted provider records so a provider is
// researched at most once unless explicitly invalidated.
package store

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/carescout/carescout/internal/model"
)

// CachedRecord is a stored extraction result with its scrape metadata.
type CachedRecord struct {
	Key       string
	Name      string
	Record    model.ExtractedRecord
	Meta      model.RecordMeta
	UpdatedAt string // RFC 3339, set by the store
}

// Store is the persistence interface for provider records and raw
// scraped text.
type Store interface {
	// Lookup returns the cached record for a provider name, or nil on miss.
	Lookup(ctx context.Context, name string) (*CachedRecord, error)
	// Save upserts the record for a provider name.
	Save(ctx context.Context, name string, rec model.ExtractedRecord, meta model.RecordMeta) error
	// SaveText stores the raw aggregated text a record was extracted
	// from, prefixed with a header naming the source URLs, fetch method,
	// and save time.
	SaveText(ctx context.Context, name, text string, meta model.RecordMeta) error
	// GetText returns the stored raw text, or "" if none.
	GetText(ctx context.Context, name string) (string, error)
	// List returns all cached records, newest first.
	List(ctx context.Context) ([]CachedRecord, error)
	// Invalidate removes a provider's cached record and text.
	// Returns true if a record existed.
	Invalidate(ctx context.Context, name string) (bool, error)
	// Clear removes every cached record and text.
	Clear(ctx context.Context) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}

// SanitizeKey derives the cache key from a provider name: Unicode
// compatibility decomposition with combining marks stripped, lowercased,
// and every remaining non-alphanumeric character replaced with an
// underscore. Distinct names
// can collide ("Lil' Sprouts" and "Lil Sprouts"); the newer write wins.
func SanitizeKey(name string) string {
	decomposed := norm.NFKD.String(name)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// drop combining marks left by the decomposition
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
