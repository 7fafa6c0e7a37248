package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orderledger_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)

	HTTPRateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orderledger_http_rate_limited_total",
			Help: "Total number of requests rejected by the per-session rate limiter",
		},
	)

	OrderTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderledger_order_transitions_total",
			Help: "Total number of committed order status transitions",
		},
		[]string{"to", "role"},
	)

	// NotificationsTotal counts dispatcher writes by result: created, duplicate or failed.
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderledger_notifications_total",
			Help: "Total number of notification writes by result",
		},
		[]string{"result"},
	)

	JobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderledger_job_runs_total",
			Help: "Total number of background job runs by result",
		},
		[]string{"job", "result"},
	)

	SyncPollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderledger_sync_polls_total",
			Help: "Total number of client sync polls by result",
		},
		[]string{"result"},
	)
)

const (
	ResultOK        = "ok"
	ResultFailed    = "failed"
	ResultCreated   = "created"
	ResultDuplicate = "duplicate"
)

// Register registers all Prometheus metrics with the default registry.
func Register() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRateLimitedTotal)
	prometheus.MustRegister(OrderTransitionsTotal)
	prometheus.MustRegister(NotificationsTotal)
	prometheus.MustRegister(JobRunsTotal)
	prometheus.MustRegister(SyncPollsTotal)
}
