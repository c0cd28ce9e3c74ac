// Package sentiment scores news headlines and summarises them for the dashboard.
package sentiment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/model"
	"MarketPulse/internal/news"
	"MarketPulse/internal/trace"
)

const (
	DefaultLimit = 10
	DefaultTop   = 5

	bullishAbove = 0.05
	bearishBelow = -0.05
)

// Aggregator fetches headlines for a symbol and reduces their scores to a
// single summary. It never fails: any error yields NeutralSentiment.
type Aggregator struct {
	feed   news.Feed
	scorer Scorer
	limit  int
	top    int
	log    zerolog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLimit caps how many headlines are scored.
func WithLimit(n int) Option { return func(a *Aggregator) { a.limit = n } }

// WithTop sets how many scored headlines are echoed back.
func WithTop(n int) Option { return func(a *Aggregator) { a.top = n } }

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l zerolog.Logger) Option { return func(a *Aggregator) { a.log = l } }

func NewAggregator(feed news.Feed, scorer Scorer, opts ...Option) *Aggregator {
	a := &Aggregator{
		feed:   feed,
		scorer: scorer,
		limit:  DefaultLimit,
		top:    DefaultTop,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Summarize scores up to limit headlines for symbol. The average is rounded
// to two decimals, the label is classified on the unrounded mean.
func (a *Aggregator) Summarize(ctx context.Context, symbol string) (summary model.SentimentSummary) {
	ctx, span := trace.StartSpan(ctx, "sentiment.summarize")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Str("symbol", symbol).Str("panic", fmt.Sprint(r)).Msg("sentiment scoring panicked")
			summary = model.NeutralSentiment()
		}
	}()

	headlines, err := a.feed.Headlines(ctx, symbol, a.limit)
	if err != nil {
		a.log.Warn().Err(err).Str("symbol", symbol).Str("feed", a.feed.Name()).Msg("headline fetch failed, using neutral sentiment")
		return model.NeutralSentiment()
	}
	if len(headlines) > a.limit {
		headlines = headlines[:a.limit]
	}
	if len(headlines) == 0 {
		return model.NeutralSentiment()
	}

	scores := make([]model.HeadlineScore, len(headlines))
	var sum float64
	for i, h := range headlines {
		s := a.scorer.Score(h.Title)
		scores[i] = model.HeadlineScore{Title: h.Title, Score: s}
		sum += s
	}
	avg := sum / float64(len(scores))

	top := scores
	if len(top) > a.top {
		top = top[:a.top]
	}

	a.log.Debug().Str("symbol", symbol).Int("headlines", len(scores)).Float64("average", avg).Msg("sentiment scored")
	return model.SentimentSummary{
		Average:      calculator.Round2(avg),
		Label:        Classify(avg),
		TopHeadlines: top,
	}
}

// Classify labels a mean score. The thresholds are strict.
func Classify(avg float64) model.SentimentLabel {
	switch {
	case avg > bullishAbove:
		return model.LabelBullish
	case avg < bearishBelow:
		return model.LabelBearish
	default:
		return model.LabelNeutral
	}
}
