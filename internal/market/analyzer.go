// Package market turns price history into the per-index dashboard cards.
package market

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/collector"
	"MarketPulse/internal/model"
	"MarketPulse/internal/trace"
)

const (
	ratioBase = 0.85
	ratioLow  = -0.1
	ratioHigh = 0.2

	strongBuyAbove = 1.1
	sellBelow      = 0.9

	targetATRMultiple = 2.0
)

// RatioSource draws the perturbation added to the synthetic ratio base.
// It must return values in [-0.1, 0.2].
type RatioSource func() float64

// UniformRatio draws uniformly from [-0.1, 0.2).
func UniformRatio() float64 {
	return ratioLow + rand.Float64()*(ratioHigh-ratioLow)
}

// Analyzer produces an IndexSnapshot from the latest intraday bar of a symbol.
type Analyzer struct {
	fetcher collector.Fetcher
	engine  *calculator.Engine
	ratio   RatioSource
	log     zerolog.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithRatioSource replaces the random perturbation, mainly for tests.
func WithRatioSource(src RatioSource) AnalyzerOption {
	return func(a *Analyzer) { a.ratio = src }
}

// WithAnalyzerLogger sets the analyzer's logger.
func WithAnalyzerLogger(l zerolog.Logger) AnalyzerOption {
	return func(a *Analyzer) { a.log = l }
}

func NewAnalyzer(fetcher collector.Fetcher, engine *calculator.Engine, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		fetcher: fetcher,
		engine:  engine,
		ratio:   UniformRatio,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze fetches 5 days of 5-minute bars, computes indicators and builds the
// snapshot from the last bar. An empty series yields a nil snapshot and nil error.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) (*model.IndexSnapshot, error) {
	ctx, span := trace.StartSpan(ctx, "market.analyze", attribute.String("symbol", symbol))
	defer span.End()

	bars, err := a.fetcher.FetchBars(ctx, symbol, model.Intraday5m)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		a.log.Warn().Str("symbol", symbol).Str("provider", a.fetcher.Name()).Msg("no bars returned")
		return nil, nil
	}

	rows, err := a.engine.Apply(bars)
	if err != nil {
		return nil, fmt.Errorf("indicators %s: %w", symbol, err)
	}
	last := rows[len(rows)-1]

	ratio := calculator.Round2(ratioBase + a.ratio())
	snap := &model.IndexSnapshot{
		Name:           DisplayName(symbol),
		Symbol:         symbol,
		Price:          calculator.Round2(last.Close),
		SyntheticRatio: ratio,
		Signal:         Classify(ratio),
		Target:         Target(last.Close, last.ATR),
		RSI:            calculator.Round2(last.RSI),
		VWAP:           calculator.Round2(last.VWAP),
		ATR:            calculator.Round2(last.ATR),
		AsOf:           last.Time,
	}

	a.log.Debug().
		Str("symbol", symbol).
		Int("bars", len(bars)).
		Float64("price", snap.Price).
		Float64("ratio", ratio).
		Str("signal", string(snap.Signal)).
		Msg("index analyzed")
	return snap, nil
}

// Classify maps the rounded synthetic ratio to a signal. Both thresholds are strict.
func Classify(ratio float64) model.Signal {
	switch {
	case ratio > strongBuyAbove:
		return model.SignalStrongBuy
	case ratio < sellBelow:
		return model.SignalSell
	default:
		return model.SignalNeutral
	}
}

// Target projects two ATRs above close. Without an ATR it is the close itself.
func Target(price, atr float64) float64 {
	if math.IsNaN(atr) {
		return calculator.Round2(price)
	}
	return calculator.Round2(price + targetATRMultiple*atr)
}

// DisplayName is "NIFTY" for symbols containing NSEI, otherwise "BANK NIFTY".
func DisplayName(symbol string) string {
	if strings.Contains(symbol, "NSEI") {
		return "NIFTY"
	}
	return "BANK NIFTY"
}
