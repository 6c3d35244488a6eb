package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts handled HTTP requests by route, method and status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studypal_http_requests_total",
		Help: "HTTP requests handled, by route, method and status code.",
	}, []string{"route", "method", "status"})

	// RequestDuration tracks HTTP handler latency by route.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studypal_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds, by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// ProviderCalls counts external LLM provider calls by operation and outcome.
	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studypal_provider_calls_total",
		Help: "LLM provider calls, by operation (embedding, completion) and outcome.",
	}, []string{"operation", "outcome"})

	// DegradedTurns counts chat turns answered without retrieval context after
	// an embedding failure.
	DegradedTurns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studypal_chat_degraded_turns_total",
		Help: "Chat turns served context-free after an embedding provider failure.",
	})
)
