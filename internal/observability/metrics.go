package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every custom metric exported by the service.
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Todo Metrics
	TodosCreatedTotal   prometheus.Counter
	TodosUpdatedTotal   prometheus.Counter
	TodosDeletedTotal   prometheus.Counter
	TodosCompletedTotal prometheus.Counter

	// Auth Metrics
	RegistrationsTotal prometheus.Counter
	LoginsTotal        *prometheus.CounterVec

	// Cache (Redis) Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Queue (RabbitMQ) Metrics
	QueueEventsPublished *prometheus.CounterVec
	QueueEventsConsumed  *prometheus.CounterVec
}

// NewMetrics registers and returns the full metric set.
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		TodosCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "todos_created_total",
				Help: "Total number of todos created",
			},
		),

		TodosUpdatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "todos_updated_total",
				Help: "Total number of todos updated",
			},
		),

		TodosDeletedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "todos_deleted_total",
				Help: "Total number of todos deleted",
			},
		),

		TodosCompletedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "todos_completed_total",
				Help: "Total number of todos marked completed",
			},
		),

		RegistrationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "registrations_total",
				Help: "Total number of registered users",
			},
		),

		LoginsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logins_total",
				Help: "Total number of login attempts",
			},
			[]string{"result"}, // success, failure
		),

		CacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_type"},
		),

		CacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_type"},
		),

		QueueEventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_events_published_total",
				Help: "Total number of events published to the queue",
			},
			[]string{"queue_name"},
		),

		QueueEventsConsumed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_events_consumed_total",
				Help: "Total number of events consumed from the queue",
			},
			[]string{"queue_name"},
		),
	}
}

// GlobalMetrics is the process-wide metric set.
var GlobalMetrics *Metrics

// InitMetrics initializes the global metrics.
func InitMetrics() {
	GlobalMetrics = NewMetrics()
}
