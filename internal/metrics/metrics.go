// Package metrics registers the engine's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SynthesisTotal counts synthesis calls by how they were served.
	SynthesisTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentiment_synthesis_total",
		Help: "Sentiment synthesis calls, partitioned by cache hit vs fresh computation.",
	}, []string{"source"})

	// SignalFailures counts extractor failures recovered via fallback.
	SignalFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentiment_signal_failures_total",
		Help: "Signal extractor failures recovered with a fallback value.",
	}, []string{"signal"})

	// RebalanceEvents counts orchestrator outcomes by status.
	RebalanceEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rebalance_events_total",
		Help: "Rebalance events recorded by the orchestrator, by final status.",
	}, []string{"status"})

	// FeedbackEvaluations counts graded predictions by result.
	FeedbackEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_evaluations_total",
		Help: "Past sentiment predictions graded against realized price movement.",
	}, []string{"result"})
)
