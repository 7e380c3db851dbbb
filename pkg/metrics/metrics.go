package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Per-run diagnostics metrics: counts and
// timings of hot operations, labeled by replication so a
// multi-replication run can be told apart in Prometheus.
var (
	EventsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citysim_events_processed_total",
			Help: "Total number of events popped from the EventQueue over a replication's run",
		},
		[]string{"replication"},
	)

	BacklogDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "citysim_backlog_depth",
			Help: "Residual UnservedBacklog size at the end of a replication",
		},
		[]string{"replication"},
	)

	ReplicationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "citysim_replication_duration_seconds",
			Help:    "Wall-clock time to run one replication to exhaustion",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"replication"},
	)

	RabbitMessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citysim_rabbitmq_messages_published_total",
			Help: "Total number of replay messages published to RabbitMQ",
		},
		[]string{"replication", "routing_key", "status"},
	)
)

// RecordReplication records one completed replication's event count,
// residual backlog, and wall-clock duration.
func RecordReplication(replication string, eventsProcessed, residualBacklog int, d time.Duration) {
	EventsProcessedTotal.WithLabelValues(replication).Add(float64(eventsProcessed))
	BacklogDepth.WithLabelValues(replication).Set(float64(residualBacklog))
	ReplicationDuration.WithLabelValues(replication).Observe(d.Seconds())
}

// RecordRabbitPublish records one replay-message publish attempt.
func RecordRabbitPublish(replication, routingKey string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RabbitMessagesPublishedTotal.WithLabelValues(replication, routingKey, status).Inc()
}
