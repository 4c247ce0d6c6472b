package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Session metrics
	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_created_total",
			Help: "Total number of login sessions issued",
		},
	)

	SessionValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_validations_total",
			Help: "Session cookie validations by outcome",
		},
		[]string{"outcome"}, // ok, unauthenticated, store_error
	)

	// Mail token broker metrics
	MailTokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mail_token_refreshes_total",
			Help: "External mail token refresh attempts by outcome",
		},
		[]string{"outcome"}, // ok, failed
	)

	// Feed metrics
	FeedConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_connections_active",
			Help: "Number of active feed WebSocket connections",
		},
	)

	FeedEventsBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_events_broadcast_total",
			Help: "Feed events delivered to the hub",
		},
		[]string{"kind"},
	)

	// Database pool metrics, sampled by the readiness check
	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_open",
			Help: "Number of open database connections",
		},
	)

	DBConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Number of database connections currently in use",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)
