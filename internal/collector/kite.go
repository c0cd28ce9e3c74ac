package collector

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"MarketPulse/internal/model"
)

// kiteHistorical is the slice of the Kite client used here.
type kiteHistorical interface {
	GetHistoricalData(instrumentToken int, interval string, fromDate time.Time, toDate time.Time, continuous bool, OI bool) ([]kiteconnect.HistoricalData, error)
}

// KiteFetcher implements Fetcher using Zerodha Kite Connect historical candles.
// Only instruments present in Tokens can be fetched.
type KiteFetcher struct {
	client kiteHistorical
	Tokens map[string]int
	Loc    *time.Location
	now    func() time.Time
}

// DefaultKiteTokens maps Yahoo-style index symbols to NSE instrument tokens.
var DefaultKiteTokens = map[string]int{
	"^NSEI":    256265, // NIFTY 50
	"^NSEBANK": 260105, // NIFTY BANK
}

// NewKiteFetcher creates a Kite-backed fetcher for an authenticated session.
func NewKiteFetcher(apiKey, accessToken string) *KiteFetcher {
	client := kiteconnect.New(apiKey)
	client.SetAccessToken(accessToken)
	return newKiteFetcher(client)
}

func newKiteFetcher(client kiteHistorical) *KiteFetcher {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.UTC
	}
	tokens := make(map[string]int, len(DefaultKiteTokens))
	for k, v := range DefaultKiteTokens {
		tokens[k] = v
	}
	return &KiteFetcher{client: client, Tokens: tokens, Loc: loc, now: time.Now}
}

func (f *KiteFetcher) Name() string { return "kite" }

// FetchBars maps the period onto a Kite interval and a calendar window, then
// trims the result to the requested number of sessions.
func (f *KiteFetcher) FetchBars(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, error) {
	token, ok := f.Tokens[symbol]
	if !ok {
		return nil, fmt.Errorf("kite %s: %w", symbol, ErrUnknownSymbol)
	}
	interval, err := kiteInterval(period.Interval)
	if err != nil {
		return nil, err
	}
	sessions, err := rangeDays(period.Range)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	to := f.now().In(f.Loc)
	// Weekends and holidays: look back far enough to cover the sessions.
	from := to.AddDate(0, 0, -(sessions*2 + 4))

	data, err := f.client.GetHistoricalData(token, interval, from, to, false, false)
	if err != nil {
		return nil, fmt.Errorf("kite historical %s: %w", symbol, err)
	}

	bars := make([]model.OHLCV, 0, len(data))
	for _, d := range data {
		bars = append(bars, model.OHLCV{
			Time:   d.Date.Time.In(f.Loc),
			Open:   d.Open,
			High:   d.High,
			Low:    d.Low,
			Close:  d.Close,
			Volume: float64(d.Volume),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return lastSessions(bars, sessions), nil
}

func kiteInterval(interval string) (string, error) {
	switch interval {
	case "1m":
		return "minute", nil
	case "3m", "5m", "10m", "15m", "30m", "60m":
		return strings.TrimSuffix(interval, "m") + "minute", nil
	case "1d":
		return "day", nil
	default:
		return "", fmt.Errorf("kite: unsupported interval %q", interval)
	}
}

func rangeDays(r string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(r, "d"))
	if err != nil || !strings.HasSuffix(r, "d") || n <= 0 {
		return 0, fmt.Errorf("kite: unsupported range %q", r)
	}
	return n, nil
}

// lastSessions keeps the bars belonging to the last n distinct trading days.
func lastSessions(bars []model.OHLCV, n int) []model.OHLCV {
	seen := 0
	var day string
	for i := len(bars) - 1; i >= 0; i-- {
		d := bars[i].Time.Format("2006-01-02")
		if d != day {
			day = d
			seen++
			if seen > n {
				return bars[i+1:]
			}
		}
	}
	return bars
}
