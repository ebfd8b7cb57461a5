// Package extract turns scraped website text into a structured provider
// record using Claude.
package extract

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/carescout/carescout/internal/model"
	"github.com/carescout/carescout/internal/resilience"
	"github.com/carescout/carescout/pkg/anthropic"
)

// CharBudgets caps how much scraped text is sent to the model per call shape.
type CharBudgets struct {
	Single int // one page
	Site   int // homepage plus subpages of one site
	Multi  int // several distinct sites
}

// DefaultBudgets returns the standard per-shape character limits.
func DefaultBudgets() CharBudgets {
	return CharBudgets{Single: 16000, Site: 24000, Multi: 32000}
}

// Summarizer extracts provider records from aggregated website content.
type Summarizer struct {
	ai      anthropic.Client
	model   string
	budgets CharBudgets
	retry   resilience.RetryConfig
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithBudgets overrides the per-shape character budgets.
func WithBudgets(b CharBudgets) Option {
	return func(s *Summarizer) { s.budgets = b }
}

// WithRetry overrides the retry policy for model calls.
func WithRetry(rc resilience.RetryConfig) Option {
	return func(s *Summarizer) { s.retry = rc }
}

// NewSummarizer creates a Summarizer using the given client and model name.
func NewSummarizer(ai anthropic.Client, modelName string, opts ...Option) *Summarizer {
	s := &Summarizer{
		ai:      ai,
		model:   modelName,
		budgets: DefaultBudgets(),
		retry: resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: 2 * time.Second,
			Multiplier:     2,
			ShouldRetry:    resilience.RetryAlways,
			OnRetry:        resilience.RetryLogger("anthropic", "extract"),
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Summarize extracts the six-field record from aggregated content. Every
// model call is retried with exponential backoff; when all attempts fail the
// default record is returned so a flaky model run never sinks a whole batch.
func (s *Summarizer) Summarize(ctx context.Context, name string, agg model.AggregatedContent) model.ExtractedRecord {
	if agg.Empty() {
		return model.DefaultRecord()
	}

	prompt := s.buildPrompt(name, agg)

	rec, err := resilience.DoVal(ctx, s.retry, func(ctx context.Context) (model.ExtractedRecord, error) {
		return s.callModel(ctx, prompt)
	})
	if err != nil {
		zap.L().Warn("extract: all attempts failed, using defaults",
			zap.String("provider", name),
			zap.Error(err),
		)
		return model.DefaultRecord()
	}

	return rec.Normalize()
}

func (s *Summarizer) buildPrompt(name string, agg model.AggregatedContent) string {
	switch {
	case agg.Mode == model.AggURLList && len(agg.ScrapedURLs) > 1:
		return buildMultiPrompt(name, agg.CombinedText, s.budgets.Multi)
	case len(agg.Pages) > 1:
		return buildSitePrompt(name, agg.CombinedText, s.budgets.Site)
	default:
		return buildSinglePrompt(name, agg.CombinedText, s.budgets.Single)
	}
}

func (s *Summarizer) callModel(ctx context.Context, prompt string) (model.ExtractedRecord, error) {
	var rec model.ExtractedRecord

	resp, err := s.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     s.model,
		MaxTokens: 512,
		System:    systemPrompt,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return rec, eris.Wrap(err, "extract: claude request")
	}

	text := resp.Text()
	if text == "" {
		return rec, eris.New("extract: empty claude response")
	}
	resp.Usage.LogUsage(s.model, "extract")

	return parseRecord(text)
}

// parseRecord pulls the first JSON object out of model output. The model may
// wrap JSON in code fences or prose, so we slice from the first "{" to the
// last "}" before unmarshalling.
func parseRecord(text string) (model.ExtractedRecord, error) {
	var rec model.ExtractedRecord

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < 0 || end <= start {
		return rec, eris.Errorf("extract: no JSON in response: %s", snippet(text))
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), &rec); err != nil {
		return rec, eris.Wrap(err, "extract: parse response JSON")
	}
	return rec, nil
}

func snippet(s string) string {
	const max = 120
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
