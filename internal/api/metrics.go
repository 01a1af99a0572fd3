package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	gateAllowed       = "allowed"
	gateNotConfigured = "not_configured"
	gatePingFailed    = "ping_failed"
)

var (
	// gateDecisionsTotal counts availability gate outcomes.
	gateDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemgate_gate_decisions_total",
			Help: "Availability gate decisions by result",
		},
		[]string{"result"},
	)

	// pingDuration observes backend ping latency, successful or not.
	pingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "itemgate_ping_duration_seconds",
			Help:    "Latency of the backend ping run by the availability gate",
			Buckets: prometheus.DefBuckets,
		},
	)

	// itemOperationsTotal counts item API calls by operation and outcome.
	itemOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemgate_item_operations_total",
			Help: "Item operations by op (list|get|create) and result",
		},
		[]string{"op", "result"},
	)
)
