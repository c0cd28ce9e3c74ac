package model

// IndicatorBar is an OHLCV bar with indicator columns appended.
// Indicator values are NaN until their warm-up period is satisfied.
type IndicatorBar struct {
	OHLCV
	RSI  float64
	VWAP float64
	ATR  float64
}
