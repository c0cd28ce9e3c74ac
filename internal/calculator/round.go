package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds the exact binary value of v to two decimal places, half to
// even, so 2.675 (stored as 2.67499...) becomes 2.67. NaN and Inf pass through.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloatWithExponent(v, -20).RoundBank(2).InexactFloat64()
}
