package market

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/collector"
	"MarketPulse/internal/model"
)

func fixed(v float64) RatioSource { return func() float64 { return v } }

func trendBars(n int, start, step float64) []model.OHLCV {
	t0 := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := start + float64(i)*step
		bars[i] = model.OHLCV{
			Time: t0.Add(time.Duration(i) * 5 * time.Minute),
			Open: c - 1, High: c + 1, Low: c - 1, Close: c, Volume: 100,
		}
	}
	return bars
}

func TestAnalyze(t *testing.T) {
	f := &collector.MockFetcher{Bars: map[string][]model.OHLCV{"^NSEI": trendBars(30, 100, 1)}}
	a := NewAnalyzer(f, calculator.NewEngine(), WithRatioSource(fixed(0.1)))

	snap, err := a.Analyze(context.Background(), "^NSEI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Name != "NIFTY" || snap.Symbol != "^NSEI" {
		t.Errorf("identity: got %s/%s", snap.Name, snap.Symbol)
	}
	if snap.Price != 129 {
		t.Errorf("price: got %v, want 129", snap.Price)
	}
	if snap.SyntheticRatio != 0.95 || snap.Signal != model.SignalNeutral {
		t.Errorf("ratio/signal: got %v/%s", snap.SyntheticRatio, snap.Signal)
	}
	if snap.RSI != 100 {
		t.Errorf("rsi on a steady uptrend: got %v", snap.RSI)
	}
	// true range is 2 on every bar after the first
	if snap.ATR != 2 || snap.Target != 133 {
		t.Errorf("atr/target: got %v/%v", snap.ATR, snap.Target)
	}
	if math.IsNaN(snap.VWAP) || snap.VWAP <= 100 || snap.VWAP >= 129 {
		t.Errorf("vwap out of range: %v", snap.VWAP)
	}
}

func TestAnalyze_ShortSeriesTargetsClose(t *testing.T) {
	f := &collector.MockFetcher{Bars: map[string][]model.OHLCV{"^NSEBANK": trendBars(5, 48000, 10)}}
	a := NewAnalyzer(f, calculator.NewEngine(), WithRatioSource(fixed(-0.1)))

	snap, err := a.Analyze(context.Background(), "^NSEBANK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Name != "BANK NIFTY" {
		t.Errorf("name: got %s", snap.Name)
	}
	if !math.IsNaN(snap.ATR) || !math.IsNaN(snap.RSI) {
		t.Errorf("expected NaN indicators, got atr=%v rsi=%v", snap.ATR, snap.RSI)
	}
	if snap.Target != snap.Price {
		t.Errorf("target should equal close without atr: %v vs %v", snap.Target, snap.Price)
	}
	if snap.SyntheticRatio != 0.75 {
		t.Errorf("ratio: got %v", snap.SyntheticRatio)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	boom := errors.New("upstream 502")
	f := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{"EMPTY": {}},
		Errs: map[string]error{"BAD": boom},
	}
	a := NewAnalyzer(f, calculator.NewEngine())

	if snap, err := a.Analyze(context.Background(), "EMPTY"); snap != nil || err != nil {
		t.Errorf("expected absent result, got %+v, %v", snap, err)
	}
	if _, err := a.Analyze(context.Background(), "BAD"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped upstream error, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		ratio float64
		want  model.Signal
	}{
		{1.11, model.SignalStrongBuy},
		{1.1, model.SignalNeutral},
		{0.9, model.SignalNeutral},
		{0.89, model.SignalSell},
		{0.85, model.SignalSell},
		{0.95, model.SignalNeutral},
	}
	for _, tt := range tests {
		if got := Classify(tt.ratio); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.ratio, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{"^NSEI": "NIFTY", "NSEI": "NIFTY", "^NSEBANK": "BANK NIFTY", "^BSESN": "BANK NIFTY"}
	for sym, want := range cases {
		if got := DisplayName(sym); got != want {
			t.Errorf("DisplayName(%s) = %s, want %s", sym, got, want)
		}
	}
}

func TestTarget(t *testing.T) {
	if got := Target(22000, 15.5); got != 22031 {
		t.Errorf("got %v", got)
	}
	if got := Target(22000.123, math.NaN()); got != 22000.12 {
		t.Errorf("got %v", got)
	}
}

func TestSyntheticRatio_Property(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 1000
	properties := gopter.NewProperties(params)

	properties.Property("ratio stays in [0.75, 1.05] and never reaches STRONG BUY", prop.ForAll(
		func(u float64) bool {
			ratio := calculator.Round2(ratioBase + u)
			return ratio >= 0.75 && ratio <= 1.05 && Classify(ratio) != model.SignalStrongBuy
		},
		gen.Float64Range(ratioLow, ratioHigh),
	))
	properties.Property("uniform source stays in range", prop.ForAll(
		func(_ int) bool {
			u := UniformRatio()
			return u >= ratioLow && u < ratioHigh
		},
		gen.Int(),
	))

	properties.TestingRun(t)
}

func TestWorldSnapshot(t *testing.T) {
	f := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"A":    {{Open: 100, Close: 102}},
			"ZERO": {{Open: 0, Close: 5}},
			"NONE": {},
		},
		Errs: map[string]error{"B": errors.New("timeout")},
	}
	w := NewWorld(f, zerolog.Nop())
	got := w.Snapshot(context.Background(), []Reference{
		{Name: "A", Symbol: "A"},
		{Name: "B", Symbol: "B"},
		{Name: "Zero", Symbol: "ZERO"},
		{Name: "None", Symbol: "NONE"},
	})

	want := model.WorldChanges{{Name: "A", Change: 2.0}, {Name: "B", Change: 0}, {Name: "Zero", Change: 0}, {Name: "None", Change: 0}}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	if m := got.Map(); m["A"] != 2.0 || m["B"] != 0.0 {
		t.Errorf("map: got %v", m)
	}
}

func TestWorldSnapshot_MultiBar(t *testing.T) {
	f := &collector.MockFetcher{Bars: map[string][]model.OHLCV{
		"^GSPC": {{Open: 5000, Close: 5010}, {Open: 5010, Close: 4950}},
	}}
	got := NewWorld(f, zerolog.Nop()).Snapshot(context.Background(), []Reference{{Name: "S&P 500", Symbol: "^GSPC"}})
	if got[0].Change != -1 {
		t.Errorf("change: got %v, want -1", got[0].Change)
	}
}
