package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_upstream_requests_total",
			Help: "Requests sent to upstream services by outcome",
		},
		[]string{"service", "outcome"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_upstream_request_duration_seconds",
			Help:    "Duration of upstream requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	CandidatesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_candidates_classified_total",
			Help: "Candidates normalized per resulting status",
		},
		[]string{"status"},
	)

	CheckRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_check_requests_total",
			Help: "Check request lifecycle transitions",
		},
		[]string{"status"},
	)

	WorkerJobsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_worker_jobs_active",
			Help: "Check requests currently being forwarded",
		},
	)
)
