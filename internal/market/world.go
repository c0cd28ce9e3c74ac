package market

import (
	"context"

	"github.com/rs/zerolog"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/collector"
	"MarketPulse/internal/model"
	"MarketPulse/internal/trace"
)

// Reference is a world index shown in the strip.
type Reference struct {
	Name   string
	Symbol string
}

// World computes day-over-open changes for reference indices.
type World struct {
	fetcher collector.Fetcher
	log     zerolog.Logger
}

func NewWorld(fetcher collector.Fetcher, log zerolog.Logger) *World {
	return &World{fetcher: fetcher, log: log}
}

// Snapshot returns one entry per reference, in order. Any failure for an
// index yields 0.0 for that index only.
func (w *World) Snapshot(ctx context.Context, refs []Reference) model.WorldChanges {
	ctx, span := trace.StartSpan(ctx, "world.snapshot")
	defer span.End()

	out := make(model.WorldChanges, 0, len(refs))
	for _, ref := range refs {
		out = append(out, model.WorldChange{Name: ref.Name, Change: w.change(ctx, ref)})
	}
	return out
}

func (w *World) change(ctx context.Context, ref Reference) float64 {
	bars, err := w.fetcher.FetchBars(ctx, ref.Symbol, model.SingleDay)
	if err != nil {
		w.log.Warn().Err(err).Str("symbol", ref.Symbol).Msg("world index fetch failed")
		return 0
	}
	if len(bars) == 0 {
		w.log.Warn().Str("symbol", ref.Symbol).Msg("world index returned no bars")
		return 0
	}
	open := bars[0].Open
	last := bars[len(bars)-1].Close
	if open == 0 {
		return 0
	}
	return calculator.Round2((last - open) / open * 100)
}
