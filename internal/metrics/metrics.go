package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// PlanRuns counts finished optimization runs by outcome.
	PlanRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "convoy_plan_runs_total", Help: "Optimization runs by status."},
		[]string{"status"},
	)
	// PlanDuration records run wall time in seconds.
	PlanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "convoy_plan_duration_seconds", Help: "Optimization run duration in seconds.", Buckets: prometheus.DefBuckets},
	)
	// UnassignedPassengers counts passengers left without a vehicle.
	UnassignedPassengers = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "convoy_unassigned_passengers_total", Help: "Passengers left unassigned across runs."},
	)
	// OptimizationScore exposes the score of the most recent run.
	OptimizationScore = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "convoy_last_optimization_score", Help: "Optimization score of the latest completed run."},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(PlanRuns)
		Registry.MustRegister(PlanDuration)
		Registry.MustRegister(UnassignedPassengers)
		Registry.MustRegister(OptimizationScore)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
