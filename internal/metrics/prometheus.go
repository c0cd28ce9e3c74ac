package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder exports fetch, request and dashboard metrics to Prometheus.
type Recorder struct {
	registry *prometheus.Registry

	fetchesTotal  *prometheus.CounterVec
	fetchLatency  *prometheus.HistogramVec
	requestsTotal *prometheus.CounterVec
	requestTime   *prometheus.HistogramVec
	indexPrice    *prometheus.GaugeVec
	unavailable   *prometheus.CounterVec
	sentiment     prometheus.Gauge
}

// New creates a recorder on its own registry, with Go runtime collectors attached.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		fetchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_fetches_total",
				Help: "Upstream market data fetches by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		fetchLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketpulse_fetch_duration_seconds",
				Help:    "Upstream fetch duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
			[]string{"provider"},
		),
		requestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		requestTime: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketpulse_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"route", "method", "class"},
		),
		indexPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketpulse_index_price",
				Help: "Last rendered price of a tracked index",
			},
			[]string{"symbol"},
		),
		unavailable: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_index_unavailable_total",
				Help: "Dashboard builds where an index panel had no data",
			},
			[]string{"symbol"},
		),
		sentiment: f.NewGauge(prometheus.GaugeOpts{
			Name: "marketpulse_sentiment_average",
			Help: "Last rendered average headline sentiment",
		}),
	}
}

// ObserveFetch records one upstream fetch.
func (r *Recorder) ObserveFetch(provider, _ string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.fetchesTotal.WithLabelValues(provider, outcome).Inc()
	r.fetchLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveRequest records one served HTTP request.
func (r *Recorder) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	r.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.requestTime.WithLabelValues(route, method, statusClass(status)).Observe(elapsed.Seconds())
}

// RecordIndexPrice records the price shown for symbol.
func (r *Recorder) RecordIndexPrice(symbol string, price float64) {
	r.indexPrice.WithLabelValues(symbol).Set(price)
}

// RecordUnavailable counts a panel rendered without data.
func (r *Recorder) RecordUnavailable(symbol string) {
	r.unavailable.WithLabelValues(symbol).Inc()
}

// RecordSentiment records the average headline score.
func (r *Recorder) RecordSentiment(avg float64) {
	r.sentiment.Set(avg)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

func statusClass(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
