package server

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"MarketPulse/internal/model"
)

type fixedBuilder struct {
	vm    *model.DashboardViewModel
	panic bool
}

func (b *fixedBuilder) Build(context.Context) *model.DashboardViewModel {
	if b.panic {
		panic("builder exploded")
	}
	return b.vm
}

type requestLog struct {
	mu     sync.Mutex
	routes []string
	status []int
}

func (r *requestLog) ObserveRequest(route, _ string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
	r.status = append(r.status, status)
}

func view() *model.DashboardViewModel {
	return &model.DashboardViewModel{
		Primary: model.IndexPanel{Symbol: "^NSEI", Snapshot: &model.IndexSnapshot{
			Name: "NIFTY", Symbol: "^NSEI", Price: 22012.35, SyntheticRatio: 0.93,
			Signal: model.SignalNeutral, Target: 22070.55, RSI: 61.2, VWAP: 21990.1, ATR: math.NaN(),
		}},
		Secondary: model.IndexPanel{Symbol: "^NSEBANK", Err: "data unavailable"},
		Sentiment: model.SentimentSummary{Average: 0.42, Label: model.LabelBullish,
			TopHeadlines: []model.HeadlineScore{{Title: "Banks <b>rally</b>", Score: 0.6}}},
		World:     model.WorldChanges{{Name: "S&P 500", Change: 2.0}, {Name: "GIFT Nifty", Change: 0}},
		Timestamp: "14:03:09",
		Zone:      "JST",
	}
}

func newTestServer(t *testing.T, b ViewBuilder, obs RequestObserver, logBuf *bytes.Buffer) *Server {
	t.Helper()
	log := zerolog.New(logBuf)
	opts := []ServerOption{WithPort(0)}
	if obs != nil {
		opts = append(opts, WithObserver(obs))
	}
	s, err := NewServer(NewDashboardHandler(b), log, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestIndex(t *testing.T) {
	var logs bytes.Buffer
	obs := &requestLog{}
	s := newTestServer(t, &fixedBuilder{vm: view()}, obs, &logs)

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: %s", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"NIFTY", "22012.35", "NEUTRAL", "0.93", "22070.55", "61.20", "n/a",
		"data unavailable", "BULLISH", "&#43;0.42",
		"Banks &lt;b&gt;rally&lt;/b&gt;",
		"S&amp;P 500", "&#43;2.00%", `<span id="clock">14:03:09</span> JST`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing request id header")
	}
	if len(obs.routes) != 1 || obs.routes[0] != "/" || obs.status[0] != http.StatusOK {
		t.Errorf("observer: %+v", obs)
	}
	if !strings.Contains(logs.String(), `"path":"/"`) || !strings.Contains(logs.String(), `"status":200`) {
		t.Errorf("request not logged: %s", logs.String())
	}
}

func TestIndex_KeepsRequestID(t *testing.T) {
	var logs bytes.Buffer
	s := newTestServer(t, &fixedBuilder{vm: view()}, nil, &logs)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("request id: got %s", got)
	}
	if !strings.Contains(logs.String(), `"request_id":"abc-123"`) {
		t.Errorf("request id not logged: %s", logs.String())
	}
}

func TestOnlyIndexRoute(t *testing.T) {
	var logs bytes.Buffer
	s := newTestServer(t, &fixedBuilder{vm: view()}, nil, &logs)

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown path: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("metrics must not be on the dashboard listener: got %d", rec.Code)
	}
}

func TestIndex_PanicRecovered(t *testing.T) {
	var logs bytes.Buffer
	s := newTestServer(t, &fixedBuilder{panic: true}, nil, &logs)

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d", rec.Code)
	}
	if !strings.Contains(logs.String(), "panic recovered") {
		t.Errorf("panic not logged: %s", logs.String())
	}
}

func TestMetricsServer(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("marketpulse_up 1\n"))
	})
	m := NewMetricsServer(":0", h, zerolog.Nop())

	rec := httptest.NewRecorder()
	m.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "marketpulse_up 1") {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestTemplateFuncs(t *testing.T) {
	num := templateFuncs["num"].(func(float64) string)
	if num(math.NaN()) != "n/a" || num(1.5) != "1.50" {
		t.Errorf("num: %s %s", num(math.NaN()), num(1.5))
	}
	signed := templateFuncs["signed"].(func(float64) string)
	if signed(2) != "+2.00" || signed(-0.4) != "-0.40" {
		t.Errorf("signed: %s %s", signed(2), signed(-0.4))
	}
	change := templateFuncs["changeClass"].(func(float64) string)
	if change(1) != "up" || change(-1) != "down" || change(0) != "flat" {
		t.Error("changeClass")
	}
}
