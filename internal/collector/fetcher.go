package collector

import (
	"context"
	"errors"
	"time"

	"MarketPulse/internal/model"
)

// ErrUnknownSymbol is returned by fetchers that cannot resolve a symbol.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Fetcher defines the interface for fetching market data.
// An empty series with a nil error means the provider had no bars.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, error)
	Name() string
}

// FetchObserver receives the outcome of every upstream fetch.
type FetchObserver interface {
	ObserveFetch(provider, symbol string, elapsed time.Duration, err error)
}

type observedFetcher struct {
	Fetcher
	obs FetchObserver
}

// WithObserver wraps f so that each FetchBars call is reported to obs.
func WithObserver(f Fetcher, obs FetchObserver) Fetcher {
	if obs == nil {
		return f
	}
	return &observedFetcher{Fetcher: f, obs: obs}
}

func (o *observedFetcher) FetchBars(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, error) {
	start := time.Now()
	bars, err := o.Fetcher.FetchBars(ctx, symbol, period)
	o.obs.ObserveFetch(o.Fetcher.Name(), symbol, time.Since(start), err)
	return bars, err
}
