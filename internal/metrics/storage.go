// Package metrics exposes Prometheus instruments for the storage engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	StorageOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stratum",
			Name:      "storage_operations_total",
			Help:      "Total number of storage engine operations",
		},
		[]string{"operation", "collection", "status"},
	)

	StorageOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stratum",
			Name:      "storage_operation_duration_seconds",
			Help:      "Storage engine operation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "collection"},
	)
)

// Register registers the storage instruments with the given registerer.
func Register(r prometheus.Registerer) {
	r.MustRegister(StorageOpsTotal, StorageOpDuration)
}

// ObserveOp records one storage engine round trip.
func ObserveOp(operation, collection string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StorageOpsTotal.WithLabelValues(operation, collection, status).Inc()
	StorageOpDuration.WithLabelValues(operation, collection).Observe(time.Since(start).Seconds())
}
