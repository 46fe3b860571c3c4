package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RSVPOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_rsvp_operations_total",
			Help: "RSVP operations by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	AgentRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_news_agent_runs_total",
			Help: "News agent runs by result",
		},
		[]string{"result"},
	)
)

// TrackRSVP records one RSVP operation outcome.
func TrackRSVP(action, outcome string) {
	RSVPOperations.WithLabelValues(action, outcome).Inc()
}
