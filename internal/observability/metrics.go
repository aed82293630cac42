// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kisanvikas_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kisanvikas_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// WebSocketConnectionsTotal is the gauge of active realtime connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kisanvikas_websocket_connections_total",
		Help: "Number of active WebSocket connections",
	})

	// RealtimeEventsTotal counts change events published per table and event type.
	RealtimeEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kisanvikas_realtime_events_total",
		Help: "Total change events published by table and event type",
	}, []string{"table", "event"})

	// WebSocketBackpressureDrops counts events dropped because a client's send buffer was full.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kisanvikas_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket events dropped due to backpressure",
	}, []string{"reason"})

	// EnhanceRequests counts AI rewrite requests by outcome.
	EnhanceRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kisanvikas_enhance_requests_total",
		Help: "Total AI enhance requests by outcome",
	}, []string{"outcome"})

	// UploadBytes records uploaded object sizes per bucket.
	UploadBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kisanvikas_upload_bytes",
		Help:    "Size in bytes of uploaded objects per bucket",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	}, []string{"bucket"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
