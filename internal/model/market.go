package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Period selects the range and bar size of a history request.
type Period struct {
	Range    string // e.g. "5d", "1d"
	Interval string // e.g. "5m", "1d"
}

var (
	// Intraday5m is the series the index analysis runs on.
	Intraday5m = Period{Range: "5d", Interval: "5m"}
	// SingleDay is used for the world market day change.
	SingleDay = Period{Range: "1d", Interval: "1d"}
)

// Headline is a single news item as returned by a headline feed.
type Headline struct {
	Title       string
	Publisher   string
	Link        string
	PublishedAt time.Time
}
