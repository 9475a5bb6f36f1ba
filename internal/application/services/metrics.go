package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pnlComputationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pnl_computations_total",
		Help: "Total number of wallet PNL computations",
	})

	pnlUpstreamFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pnl_upstream_failures_total",
		Help: "Total number of transaction fetches degraded to no-data",
	})

	pnlComputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pnl_compute_duration_seconds",
		Help:    "Time taken to compute one wallet PNL report",
		Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60},
	})

	monitorHoldingsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_holdings_recorded_total",
		Help: "Total number of holdings-history rows recorded",
	})

	monitorPollErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_poll_errors_total",
		Help: "Total number of wallet poll errors",
	})
)
