package model

// Signal is the action shown for an index, derived from the synthetic ratio.
type Signal string

const (
	SignalStrongBuy Signal = "STRONG BUY"
	SignalSell      Signal = "SELL"
	SignalNeutral   Signal = "NEUTRAL"
)

// SentimentLabel classifies an average headline score.
type SentimentLabel string

const (
	LabelBullish SentimentLabel = "BULLISH"
	LabelBearish SentimentLabel = "BEARISH"
	LabelNeutral SentimentLabel = "NEUTRAL"
)
