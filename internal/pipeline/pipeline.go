// Package pipeline orchestrates the enrichment flow for a provider:
// cache lookup, website aggregation, record extraction, persistence,
// and scoring.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/carescout/carescout/internal/model"
	"github.com/carescout/carescout/internal/score"
	"github.com/carescout/carescout/internal/store"
)

// Row statuses recorded on enrichment results. A partial batch still
// exports a usable table, with the failure mode visible per row.
const (
	StatusOK           = "ok"
	StatusCached       = "cached"
	StatusNoWebsite    = "no website"
	StatusScrapeFailed = "scrape failed"
)

// Aggregator gathers website text for a provider.
type Aggregator interface {
	FromSite(ctx context.Context, baseURL string, maxPages int) model.AggregatedContent
	FromURLList(ctx context.Context, urls []string) model.AggregatedContent
}

// Summarizer extracts a structured record from aggregated text.
type Summarizer interface {
	Summarize(ctx context.Context, name string, agg model.AggregatedContent) model.ExtractedRecord
}

// Options configures a Pipeline run.
type Options struct {
	MaxPages     int // per-site page budget, default 5
	MaxProviders int // batch cap, 0 means unlimited
	Refresh      bool
	Weights      map[string]int
	AllowList    []string
}

// Pipeline wires the enrichment stages together.
type Pipeline struct {
	agg        Aggregator
	summarizer Summarizer
	store      store.Store
}

// New creates a Pipeline.
func New(agg Aggregator, summarizer Summarizer, st store.Store) *Pipeline {
	return &Pipeline{agg: agg, summarizer: summarizer, store: st}
}

// Enrich researches one provider and returns its fully scored row. A
// cached record short-circuits the scrape and model stages unless
// opts.Refresh is set. Scoring always runs, so reweighting a cached
// table needs no re-scrape.
func (p *Pipeline) Enrich(ctx context.Context, cand model.ProviderCandidate, opts Options) (model.ScoredProvider, error) {
	row := model.ScoredProvider{
		ProviderCandidate: cand,
		ExtractedRecord:   model.DefaultRecord(),
	}
	if cand.Name == "" {
		return row, eris.New("pipeline: provider has no name")
	}

	rec, status, err := p.recordFor(ctx, cand, opts)
	if err != nil {
		return row, err
	}
	row.ExtractedRecord = rec
	row.Status = status

	row.Type = score.ClassifyType(cand.Name)
	row.MSFTDiscount = score.CheckDiscount(cand.Name, opts.AllowList)

	weights := opts.Weights
	if weights == nil {
		weights = score.DefaultWeights()
	}
	row.Score = score.Compute(rec, row.MSFTDiscount, weights)

	return row, nil
}

// recordFor resolves the extracted record for a candidate: cache hit,
// or scrape plus extraction with the result persisted.
func (p *Pipeline) recordFor(ctx context.Context, cand model.ProviderCandidate, opts Options) (model.ExtractedRecord, string, error) {
	if !opts.Refresh {
		cached, err := p.store.Lookup(ctx, cand.Name)
		if err != nil {
			return model.DefaultRecord(), "", eris.Wrapf(err, "pipeline: cache lookup %s", cand.Name)
		}
		if cached != nil {
			zap.L().Debug("pipeline: cache hit", zap.String("provider", cand.Name))
			return cached.Record, StatusCached, nil
		}
	}

	urls := cand.URLs()
	if len(urls) == 0 {
		zap.L().Info("pipeline: provider has no website", zap.String("provider", cand.Name))
		return model.DefaultRecord(), StatusNoWebsite, nil
	}

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = 5
	}

	var agg model.AggregatedContent
	if len(urls) == 1 {
		agg = p.agg.FromSite(ctx, urls[0], maxPages)
	} else {
		agg = p.agg.FromURLList(ctx, urls)
	}
	if agg.Empty() {
		zap.L().Warn("pipeline: no usable content scraped",
			zap.String("provider", cand.Name),
			zap.Strings("urls", urls),
		)
		return model.DefaultRecord(), StatusScrapeFailed, nil
	}

	rec := p.summarizer.Summarize(ctx, cand.Name, agg)

	meta := model.RecordMeta{
		Method:          string(agg.PrimaryMethod()),
		PagesScraped:    len(agg.ScrapedURLs),
		TotalURLs:       len(urls),
		ScrapedURLs:     agg.ScrapedURLs,
		FailedURLs:      agg.FailedURLs,
		TotalTextLength: len(agg.CombinedText),
	}
	if err := p.store.Save(ctx, cand.Name, rec, meta); err != nil {
		return rec, "", eris.Wrapf(err, "pipeline: save record %s", cand.Name)
	}
	if err := p.store.SaveText(ctx, cand.Name, agg.CombinedText, meta); err != nil {
		return rec, "", eris.Wrapf(err, "pipeline: save text %s", cand.Name)
	}

	return rec, StatusOK, nil
}

// Batch enriches candidates one at a time, in order. A failing provider
// is recorded on its row and never aborts the rest; the only hard stop
// is context cancellation.
func (p *Pipeline) Batch(ctx context.Context, candidates []model.ProviderCandidate, opts Options) ([]model.ScoredProvider, error) {
	if opts.MaxProviders > 0 && len(candidates) > opts.MaxProviders {
		candidates = candidates[:opts.MaxProviders]
	}

	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID))
	log.Info("pipeline: batch start", zap.Int("providers", len(candidates)))

	rows := make([]model.ScoredProvider, 0, len(candidates))
	for i, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return rows, eris.Wrap(err, "pipeline: batch cancelled")
		}

		row, err := p.Enrich(ctx, cand, opts)
		if err != nil {
			log.Warn("pipeline: provider failed",
				zap.Int("index", i),
				zap.String("provider", cand.Name),
				zap.Error(err),
			)
			row.Status = eris.Cause(err).Error()
		}
		rows = append(rows, row)
	}

	model.RankProviders(rows)
	log.Info("pipeline: batch complete", zap.Int("rows", len(rows)))
	return rows, nil
}
