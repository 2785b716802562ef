package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtroom_ai_requests_total",
			Help: "Total number of requests to the upstream AI API by kind and status.",
		},
		[]string{"kind", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "courtroom_ai_request_duration_seconds",
			Help:    "Histogram of upstream AI request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	fallbackRepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtroom_fallback_replies_total",
			Help: "Character replies replaced by a fixed fallback line.",
		},
		[]string{"role"},
	)
	turnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtroom_turns_total",
			Help: "Player turns by mode and result.",
		},
		[]string{"mode", "result"},
	)
	verdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtroom_verdicts_total",
			Help: "Revealed verdicts by mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)
	ledgerWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtroom_ledger_writes_total",
			Help: "Verdict ledger writes by sink and status.",
		},
		[]string{"sink", "status"},
	)
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "courtroom_active_sessions",
		Help: "Sessions currently held in memory.",
	})
)
