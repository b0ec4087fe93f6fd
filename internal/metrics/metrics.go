package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scholarbase_logins_total",
			Help: "Total number of successful logins",
		},
	)

	FailedLoginsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scholarbase_failed_logins_total",
			Help: "Total number of failed login attempts",
		},
	)

	LockoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scholarbase_lockouts_total",
			Help: "Total number of accounts locked after repeated failures",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarbase_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
)
