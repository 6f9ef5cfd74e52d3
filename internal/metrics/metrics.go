// Package metrics defines the Prometheus instruments the service
// exposes. Everything hangs off an injected registry so tests can use
// their own.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	ExtractionAttempts prometheus.Counter
	ExtractionFailures prometheus.Counter

	ChatLatency prometheus.Histogram

	SessionsStarted prometheus.Counter
	TimersStarted   prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "souschef",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "souschef",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		ExtractionAttempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "souschef",
			Name:      "extraction_attempts_total",
			Help:      "Recipe extraction rounds sent to the language backend.",
		}),
		ExtractionFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "souschef",
			Name:      "extraction_failures_total",
			Help:      "Extractions that exhausted their retry budget.",
		}),
		ChatLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "souschef",
			Name:      "chat_latency_seconds",
			Help:      "Language backend round-trip latency.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "souschef",
			Name:      "sessions_started_total",
			Help:      "Cooking sessions created.",
		}),
		TimersStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "souschef",
			Name:      "timers_started_total",
			Help:      "Timers created across all sessions.",
		}),
	}
}
