// Package observability exposes the gateway's Prometheus metrics and health
// handlers. Metrics are registered via promauto at package init and recorded
// through small helpers so callers never touch prometheus types directly.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agentgate_chat_requests_total",
		Help: "Total number of chat requests by outcome",
	}, []string{"outcome"})

	chatDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "agentgate_chat_duration_seconds",
		Help:    "End-to-end chat request duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
	})

	triageDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agentgate_triage_decisions_total",
		Help: "Total number of triage decisions by selected variant",
	}, []string{"variant"})

	providerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agentgate_provider_requests_total",
		Help: "Total number of data provider requests",
	}, []string{"provider", "status"})

	providerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agentgate_provider_latency_seconds",
		Help:    "Data provider call latency in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 15.0},
	}, []string{"provider"})

	modelRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agentgate_model_requests_total",
		Help: "Total number of LLM calls",
	}, []string{"provider", "status"})

	modelLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agentgate_model_latency_seconds",
		Help:    "LLM call latency in seconds",
		Buckets: []float64{0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
	}, []string{"provider"})
)

// ObserveChatRequest records one completed chat request.
func ObserveChatRequest(outcome string, dur time.Duration) {
	chatRequests.WithLabelValues(outcome).Inc()
	chatDuration.Observe(dur.Seconds())
}

// ObserveTriageDecision records one triage routing decision.
func ObserveTriageDecision(variant string) {
	triageDecisions.WithLabelValues(variant).Inc()
}

// ObserveProviderCall records one data provider call.
func ObserveProviderCall(provider string, dur time.Duration, err error) {
	providerRequests.WithLabelValues(provider, statusLabel(err)).Inc()
	providerLatency.WithLabelValues(provider).Observe(dur.Seconds())
}

// ObserveModelCall records one LLM call.
func ObserveModelCall(provider string, dur time.Duration, err error) {
	modelRequests.WithLabelValues(provider, statusLabel(err)).Inc()
	modelLatency.WithLabelValues(provider).Observe(dur.Seconds())
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
