package genai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess   = "success"
	outcomeRetriable = "retriable_error"
	outcomeError     = "error"
)

var (
	generationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aimentor_generation_attempts_total",
			Help: "Generation attempts against the LLM backend by outcome",
		},
		[]string{"provider", "outcome"},
	)

	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aimentor_generation_duration_seconds",
			Help:    "Latency of a single generation attempt",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"provider"},
	)
)
