package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/carescout/carescout/internal/aggregate"
	"github.com/carescout/carescout/internal/extract"
	"github.com/carescout/carescout/internal/fetch"
	"github.com/carescout/carescout/internal/links"
	"github.com/carescout/carescout/internal/pipeline"
	"github.com/carescout/carescout/internal/resilience"
	"github.com/carescout/carescout/internal/score"
	"github.com/carescout/carescout/internal/store"
	"github.com/carescout/carescout/pkg/anthropic"
)

// initStore opens and migrates the record cache.
func initStore(ctx context.Context) (*store.SQLiteStore, error) {
	st, err := store.NewSQLite(cfg.Cache.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open cache")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate cache")
	}
	return st, nil
}

// buildPipeline wires the fetch, aggregation, and extraction stages
// from configuration.
func buildPipeline(st store.Store) (*pipeline.Pipeline, error) {
	ai, err := anthropic.NewClient(cfg.Anthropic.Key)
	if err != nil {
		return nil, err
	}

	static := fetch.NewStaticFetcher(
		fetch.WithTimeout(time.Duration(cfg.Fetch.TimeoutSecs)*time.Second),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
	)
	rendered := fetch.NewRenderedFetcher(
		fetch.WithRenderTimeout(time.Duration(cfg.Fetch.RenderTimeoutSecs)*time.Second),
		fetch.WithSettleDelay(time.Duration(cfg.Fetch.RenderSettleSecs)*time.Second),
	)
	smart := fetch.NewSmartFetcher(static, rendered, cfg.Fetch.MinTextLength, cfg.Fetch.RenderMarkers)

	filter := links.NewFilter(cfg.Crawl.DenySubstrings, cfg.Crawl.PrioritySubstrings)
	agg := aggregate.New(smart, static, filter, cfg.Crawl.MinContentLength, cfg.Crawl.RequestsPerSecond)

	summarizer := extract.NewSummarizer(ai, cfg.Anthropic.Model,
		extract.WithBudgets(extract.CharBudgets{
			Single: cfg.Extract.SingleCharBudget,
			Site:   cfg.Extract.SiteCharBudget,
			Multi:  cfg.Extract.MultiCharBudget,
		}),
		extract.WithRetry(resilience.RetryConfig{
			MaxAttempts:    cfg.Extract.Retries,
			InitialBackoff: time.Duration(cfg.Extract.BackoffBaseMSecs) * time.Millisecond,
			Multiplier:     2,
			ShouldRetry:    resilience.RetryAlways,
			OnRetry:        resilience.RetryLogger("anthropic", "extract"),
		}),
	)

	return pipeline.New(agg, summarizer, st), nil
}

// pipelineOptions assembles per-run options from configuration plus the
// command-level refresh flag.
func pipelineOptions(refresh bool, maxProviders int) (pipeline.Options, error) {
	allowList, err := score.LoadAllowList(cfg.Score.MSFTListPath)
	if err != nil {
		return pipeline.Options{}, err
	}

	weights := cfg.Score.Weights
	if len(weights) == 0 {
		weights = score.DefaultWeights()
	}

	return pipeline.Options{
		MaxPages:     cfg.Crawl.MaxPages,
		MaxProviders: maxProviders,
		Refresh:      refresh,
		Weights:      weights,
		AllowList:    allowList,
	}, nil
}
