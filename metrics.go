package pxyzc

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/omarflow/pxyzc/optimize"
)

// Metrics wraps the Prometheus instrumentation for a compiler instance.
// A nil *Metrics is safe to use everywhere: every method is a no-op in
// that case, so instrumentation can be wired in optionally.
type Metrics struct {
	mu       sync.RWMutex
	enabled  bool
	registry prometheus.Registerer

	compileDuration *prometheus.HistogramVec
	diagnostics     *prometheus.CounterVec
	reclaimedNodes  prometheus.Counter
	reclaimedEdges  prometheus.Counter
	reclaimedPreds  prometheus.Counter
	artifactSize    prometheus.Histogram
}

// NewMetrics registers the pxyzc metric family against registry and
// returns the wrapper. Pass nil to use the default global registerer.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		enabled:  true,
		registry: registry,

		compileDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pxyzc",
			Name:      "compile_duration_seconds",
			Help:      "Time spent compiling a workflow document, labeled by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),

		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pxyzc",
			Name:      "diagnostics_total",
			Help:      "Diagnostics produced by analysis, labeled by tier and severity.",
		}, []string{"tier", "severity"}),

		reclaimedNodes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pxyzc",
			Name:      "optimizer_nodes_reclaimed_total",
			Help:      "Dead nodes removed by the optimizer.",
		}),

		reclaimedEdges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pxyzc",
			Name:      "optimizer_edges_reclaimed_total",
			Help:      "Edges removed by the optimizer.",
		}),

		reclaimedPreds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pxyzc",
			Name:      "optimizer_predicates_reclaimed_total",
			Help:      "Duplicate predicates collapsed by the optimizer.",
		}),

		artifactSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pxyzc",
			Name:      "artifact_bytes",
			Help:      "Size in bytes of emitted binary artifacts.",
			Buckets:   prometheus.ExponentialBuckets(256, 2, 16),
		}),
	}
}

func (m *Metrics) observeCompile(outcome string, seconds float64) {
	if m == nil || !m.enabled {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.compileDuration.WithLabelValues(outcome).Observe(seconds)
}

func (m *Metrics) countDiagnostic(tier, severity string) {
	if m == nil || !m.enabled {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.diagnostics.WithLabelValues(tier, severity).Inc()
}

func (m *Metrics) observeOptimize(stats optimize.Stats) {
	if m == nil || !m.enabled {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.reclaimedNodes.Add(float64(stats.NodesRemoved))
	m.reclaimedEdges.Add(float64(stats.EdgesRemoved))
	m.reclaimedPreds.Add(float64(stats.PredicatesRemoved))
}

func (m *Metrics) observeArtifactSize(bytes int) {
	if m == nil || !m.enabled {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.artifactSize.Observe(float64(bytes))
}

// Disable turns off instrumentation without unregistering collectors.
func (m *Metrics) Disable() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = false
}

// Enable turns instrumentation back on.
func (m *Metrics) Enable() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = true
}
