package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	alloc "github.com/lance6716/file-allocation-demo"
)

// AllocationMetrics observes a simulation run and exports the outcome of every
// operation and the usage of the disk.
type AllocationMetrics interface {
	alloc.Observer
}

type allocationMetrics struct {
	strategy       string
	operations     *prometheus.CounterVec
	requestedSizes *prometheus.HistogramVec
	blocks         *prometheus.GaugeVec
	freeRuns       prometheus.Gauge
	largestRun     prometheus.Gauge
	files          prometheus.Gauge
}

// NewAllocationMetrics registers the allocation metrics of a run using the
// given strategy in the global registry. Calling it again reuses the
// collectors already registered, so runs in the same process share them.
func NewAllocationMetrics(strategy alloc.AllocationStrategy) AllocationMetrics {
	if !IsEnabled() {
		return noopAllocationMetrics{}
	}
	return newAllocationMetrics(GetRegistry(), strategy)
}

func newAllocationMetrics(reg prometheus.Registerer, strategy alloc.AllocationStrategy) *allocationMetrics {
	labels := prometheus.Labels{"strategy": strategy.String()}
	return &allocationMetrics{
		strategy: strategy.String(),
		operations: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "allocsim_operations_total",
				Help: "Total number of applied operations by strategy, kind, status and error class",
			},
			[]string{"strategy", "kind", "status", "error"},
		)),
		requestedSizes: register(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "allocsim_create_size_blocks",
				Help:    "Requested size in blocks of create operations",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"strategy", "status"},
		)),
		blocks: register(reg, prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "allocsim_blocks",
				Help:        "Number of disk blocks by state",
				ConstLabels: labels,
			},
			[]string{"state"},
		)),
		freeRuns: register(reg, prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "allocsim_free_runs",
				Help:        "Number of maximal runs of free blocks",
				ConstLabels: labels,
			},
		)),
		largestRun: register(reg, prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "allocsim_largest_free_run_blocks",
				Help:        "Length of the longest run of free blocks",
				ConstLabels: labels,
			},
		)),
		files: register(reg, prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "allocsim_files",
				Help:        "Number of distinct file names on the disk",
				ConstLabels: labels,
			},
		)),
	}
}

// register registers c with reg, or returns the equal collector registered
// before.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing
		}
	}
	panic(err)
}

func (m *allocationMetrics) OnResult(r alloc.Result, d *alloc.Disk) {
	status, class := "success", "none"
	if !r.Success {
		status, class = "error", alloc.ErrorClass(r.Err)
	}
	m.operations.WithLabelValues(m.strategy, r.Op.Kind.String(), status, class).Inc()
	if r.Op.Kind == alloc.OpCreate {
		m.requestedSizes.WithLabelValues(m.strategy, status).Observe(float64(r.Op.Size))
	}

	stats := d.Stats()
	m.blocks.WithLabelValues("used").Set(float64(stats.Used))
	m.blocks.WithLabelValues("free").Set(float64(stats.Free))
	m.freeRuns.Set(float64(stats.FreeRuns))
	m.largestRun.Set(float64(stats.LargestFreeRun))
	m.files.Set(float64(stats.Files))
}

type noopAllocationMetrics struct{}

func (noopAllocationMetrics) OnResult(alloc.Result, *alloc.Disk) {}
