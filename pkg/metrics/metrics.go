package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the worker-side application metrics.
type Metrics struct {
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram
	OutboxRetries           *prometheus.CounterVec

	VoiceCallsPlaced *prometheus.CounterVec
	EmailsSent       *prometheus.CounterVec

	DatabaseOperations *prometheus.CounterVec
}

// NewMetrics creates and registers all worker metrics.
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully processed outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of failed outbox events",
		}),
		OutboxProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent processing outbox events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		OutboxRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_retry_attempts_total",
			Help:      "Total number of retry attempts for outbox events",
		}, []string{"event_type"}),

		VoiceCallsPlaced: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "voice_calls_placed_total",
			Help:      "Outbound confirmation calls by status",
		}, []string{"status"}),
		EmailsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "emails_sent_total",
			Help:      "Confirmation emails by status",
		}, []string{"status"}),

		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
	}
}
