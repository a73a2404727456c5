package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aiterm_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status"},
	)

	commandCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aiterm_commands_total",
			Help: "Total number of dispatched commands by outcome",
		},
		[]string{"outcome"},
	)

	aiInterpretations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aiterm_ai_interpretations_total",
			Help: "Total number of AI interpretation round-trips",
		},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aiterm_active_sessions",
			Help: "Number of live web terminal sessions",
		},
	)
)
