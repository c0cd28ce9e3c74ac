package calculator

import (
	"fmt"

	"MarketPulse/internal/model"
)

// Engine appends RSI, VWAP and ATR columns to an OHLCV series.
type Engine struct {
	RSIPeriod int
	ATRPeriod int
}

// NewEngine returns an engine with the conventional 14-bar periods.
func NewEngine() *Engine {
	return &Engine{RSIPeriod: 14, ATRPeriod: 14}
}

// Apply computes all indicator columns. The input is not modified.
func (e *Engine) Apply(bars []model.OHLCV) ([]model.IndicatorBar, error) {
	rsi, err := RSI(bars, e.RSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}
	atr, err := ATR(bars, e.ATRPeriod)
	if err != nil {
		return nil, fmt.Errorf("atr: %w", err)
	}
	vwap := VWAP(bars)

	out := make([]model.IndicatorBar, len(bars))
	for i, b := range bars {
		out[i] = model.IndicatorBar{OHLCV: b, RSI: rsi[i], VWAP: vwap[i], ATR: atr[i]}
	}
	return out, nil
}
