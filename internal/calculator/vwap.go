package calculator

import (
	"math"

	"MarketPulse/internal/model"
)

// VWAP computes a volume-weighted average of the typical price ((H+L+C)/3),
// anchored to the start of each trading day. Days are taken from the bar
// timestamps in their own location, so fetchers should stamp bars in the
// exchange timezone. Bars with no cumulative volume yield NaN.
func VWAP(bars []model.OHLCV) []float64 {
	out := make([]float64, len(bars))
	var sumPV, sumV float64
	var day int
	for i, b := range bars {
		y, m, d := b.Time.Date()
		key := y*10000 + int(m)*100 + d
		if i == 0 || key != day {
			day = key
			sumPV, sumV = 0, 0
		}
		tp := (b.High + b.Low + b.Close) / 3.0
		sumPV += tp * b.Volume
		sumV += b.Volume
		if sumV == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sumPV / sumV
	}
	return out
}
