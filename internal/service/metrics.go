package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "numeros_sorte"

type Metrics struct {
	NumbersIssued      prometheus.Counter
	Allocations        *prometheus.CounterVec
	InsertConflicts    prometheus.Counter
	AllocationDuration prometheus.Histogram

	CapacityMax    prometheus.Gauge
	CapacityIssued prometheus.Gauge
	CapacityUsage  prometheus.Gauge
}

// NewMetrics registers the campaign metrics with registry. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not panic.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		NumbersIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "numbers_issued_total",
			Help:      "Total number of lucky numbers issued",
		}),
		Allocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "allocations_total",
			Help:      "Generate requests by outcome",
		}, []string{"outcome"}),
		InsertConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "insert_conflicts_total",
			Help:      "Drawn numbers lost to a concurrent allocation and drawn again",
		}),
		AllocationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "allocation_duration_seconds",
			Help:      "Time spent allocating one batch of numbers",
			Buckets:   prometheus.DefBuckets,
		}),
		CapacityMax: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "capacity_max_numbers",
			Help:      "Size of the configured number range",
		}),
		CapacityIssued: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "capacity_issued_numbers",
			Help:      "Issued numbers inside the configured range",
		}),
		CapacityUsage: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "capacity_usage_ratio",
			Help:      "Issued numbers divided by the range size",
		}),
	}
}
