package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teranos/kin/report"
)

// metrics holds the server's Prometheus collectors on a private registry,
// so several servers can coexist in one process (tests).
type metrics struct {
	registry      *prometheus.Registry
	parseTotal    *prometheus.CounterVec
	parseDuration prometheus.Histogram
	suggestTotal  prometheus.Counter
	rateLimited   prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		parseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kin",
			Name:      "parse_total",
			Help:      "Phrases parsed, by outcome.",
		}, []string{"outcome"}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kin",
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing one phrase.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		suggestTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kin",
			Name:      "suggest_total",
			Help:      "Autosuggest requests served.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kin",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-client rate limit.",
		}),
	}
	m.registry.MustRegister(m.parseTotal, m.parseDuration, m.suggestTotal, m.rateLimited)
	return m
}

// registerServerGauges exposes live hub state
func (m *metrics) registerServerGauges(s *KinServer) {
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "kin",
			Name:      "websocket_clients",
			Help:      "Connected websocket clients.",
		}, func() float64 { return float64(s.ClientCount()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "kin",
			Name:      "websocket_dropped_messages_total",
			Help:      "Replies dropped because a client queue was full.",
		}, func() float64 { return float64(s.drops.Load()) }),
	)
}

func (m *metrics) observeParse(outcome report.Outcome, elapsed time.Duration) {
	m.parseTotal.WithLabelValues(string(outcome)).Inc()
	m.parseDuration.Observe(elapsed.Seconds())
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
