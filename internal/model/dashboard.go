package model

import "time"

// HeadlineScore is one scored headline.
type HeadlineScore struct {
	Title string
	Score float64
}

// SentimentSummary aggregates the scored headlines of one request.
type SentimentSummary struct {
	Average      float64
	Label        SentimentLabel
	TopHeadlines []HeadlineScore
}

// NeutralSentiment is returned whenever headlines cannot be fetched or scored.
func NeutralSentiment() SentimentSummary {
	return SentimentSummary{Average: 0, Label: LabelNeutral, TopHeadlines: []HeadlineScore{}}
}

// IndexSnapshot is the per-index card of the dashboard.
type IndexSnapshot struct {
	Name           string
	Symbol         string
	Price          float64
	SyntheticRatio float64 // simulated, not derived from option-chain data
	Signal         Signal
	Target         float64
	RSI            float64
	VWAP           float64
	ATR            float64
	AsOf           time.Time
}

// IndexPanel is either an available snapshot or the reason it is missing.
type IndexPanel struct {
	Symbol   string
	Snapshot *IndexSnapshot
	Err      string
}

// Available reports whether the panel carries a snapshot.
func (p IndexPanel) Available() bool { return p.Snapshot != nil }

// WorldChange is the day change of one reference index, in percent.
type WorldChange struct {
	Name   string
	Change float64
}

// WorldChanges keeps world indices in configuration order.
type WorldChanges []WorldChange

// Map returns the changes keyed by display name.
func (w WorldChanges) Map() map[string]float64 {
	m := make(map[string]float64, len(w))
	for _, c := range w {
		m[c.Name] = c.Change
	}
	return m
}

// SessionStatus describes whether the primary exchange is trading.
type SessionStatus struct {
	Open      bool
	NextOpen  time.Time
	NextClose time.Time
}

// DashboardViewModel is everything the page template renders.
type DashboardViewModel struct {
	Primary   IndexPanel
	Secondary IndexPanel
	Sentiment SentimentSummary
	World     WorldChanges
	Session   SessionStatus
	Timestamp string
	Zone      string
}
