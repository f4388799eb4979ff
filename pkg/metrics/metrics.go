package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// Registrations counts registration attempts by result (success|rejected|error).
	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_registrations_total",
			Help: "Total number of registration attempts",
		},
		[]string{"result"},
	)

	// ThreadsCreated counts successfully created discussion threads.
	ThreadsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forum_threads_created_total",
			Help: "Total number of threads created",
		},
	)

	// MessagesCreated counts successfully created messages.
	MessagesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forum_messages_created_total",
			Help: "Total number of messages created",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forum_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
