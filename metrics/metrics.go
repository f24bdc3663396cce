package metrics

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// fetchCycleDuration tracks the duration of full aggregation cycles
	fetchCycleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "aggregation_cycle_duration_seconds",
			Help: "Time taken to refresh an aggregated view from the backend",
		},
		[]string{"service"},
	)

	// upstreamRequests counts backend requests by outcome
	upstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Number of requests to the marketplace backend by status",
		},
		[]string{"service", "status"},
	)

	// snapshotSize tracks the size of the cached view snapshots
	snapshotSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "view_snapshot_items",
			Help: "Number of items in the last refreshed view snapshot",
		},
		[]string{"view"},
	)
)

// RecordFetchCycle measures and records the duration of a refresh cycle
func RecordFetchCycle(service string, start time.Time) {
	duration := time.Since(start)
	fetchCycleDuration.WithLabelValues(service).Observe(duration.Seconds())
	log.Printf("Metrics: %s refresh took %.2fs", service, duration.Seconds())
}

// RecordSnapshotSize records the item count of a refreshed view snapshot
func RecordSnapshotSize(view string, count int) {
	snapshotSize.WithLabelValues(view).Set(float64(count))
}

// RequestStatusWriter reports backend request outcomes into metrics.
// It implements backendapi.IHttpStatusHandler.
type RequestStatusWriter struct {
	serviceName string
}

// NewRequestStatusWriter creates a status writer for the given service
func NewRequestStatusWriter(serviceName string) *RequestStatusWriter {
	return &RequestStatusWriter{serviceName: serviceName}
}

// OnRequest records a backend request with its status
func (w *RequestStatusWriter) OnRequest(status string) {
	upstreamRequests.WithLabelValues(w.serviceName, status).Inc()
}
