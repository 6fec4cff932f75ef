// Package metrics registers the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request latency in seconds",
		},
		[]string{"method", "route"},
	)

	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Structured search requests by category",
		},
		[]string{"category"},
	)

	NLQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nl_queries_total",
			Help: "Natural-language query requests by category and outcome",
		},
		[]string{"category", "outcome"},
	)

	EditPreviews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_edit_previews_total",
			Help: "Content-edit previews by target type and outcome",
		},
		[]string{"target_type", "outcome"},
	)

	JobsQueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_queued_total",
			Help: "Jobs added to the queue by type",
		},
		[]string{"type"},
	)

	JobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_completed_total",
			Help: "Jobs completed by type",
		},
		[]string{"type"},
	)

	JobsRetried = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_retried_total",
			Help: "Job retries by type",
		},
		[]string{"type"},
	)

	JobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_failed_total",
			Help: "Jobs failed permanently by type",
		},
		[]string{"type"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "job_duration_seconds",
			Help: "Job handler latency in seconds",
		},
		[]string{"type"},
	)

	PaymentsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_processed_total",
			Help: "Successful mock payment captures",
		},
	)

	PaymentsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_failed_total",
			Help: "Failed or rejected payment attempts",
		},
	)
)
