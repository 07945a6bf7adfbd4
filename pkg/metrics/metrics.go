package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesPublished counts send requests accepted and handed to the
	// broker.
	MessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_messages_published_total",
			Help: "Total number of messages published to the delivery queue",
		},
	)

	// PublishFailures counts publish attempts the broker rejected. The
	// message row is already persisted when this fires.
	PublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_publish_failures_total",
			Help: "Total number of failed publishes to the delivery queue",
		},
	)

	// MessagesProcessed counts consumed deliveries by terminal outcome
	// (sent, unprocessable, redelivered, dead_lettered).
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_messages_processed_total",
			Help: "Total number of consumed messages by outcome",
		},
		[]string{"outcome"},
	)

	// DispatchDuration observes end-to-end channel dispatch latency.
	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_dispatch_duration_seconds",
			Help:    "Channel dispatch duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"channel"},
	)
)
