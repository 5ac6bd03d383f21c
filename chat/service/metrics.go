package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Turn outcome labels
const (
	outcomeIntent   = "intent"
	outcomeFaq      = "faq"
	outcomeFallback = "fallback"
	outcomeError    = "error"
)

var (
	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supportbot",
		Subsystem: "chat",
		Name:      "turns_total",
		Help:      "Completed turns by classification outcome.",
	}, []string{"outcome"})

	turnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "supportbot",
		Subsystem: "chat",
		Name:      "turn_duration_seconds",
		Help:      "End-to-end turn processing latency.",
		Buckets:   prometheus.DefBuckets,
	})

	matchScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "supportbot",
		Subsystem: "chat",
		Name:      "match_score",
		Help:      "Best confidence score observed per turn.",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
	})
)
