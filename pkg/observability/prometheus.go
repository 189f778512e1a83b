package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromHooks records pipeline and cache events as Prometheus metrics on a
// private registry. It implements both [PipelineHooks] and [CacheHooks] and
// is safe for concurrent use.
type PromHooks struct {
	registry *prometheus.Registry

	instances   prometheus.Gauge
	bindings    prometheus.Gauge
	nodes       prometheus.Gauge
	edges       prometheus.Gauge
	diagnostics *prometheus.CounterVec
	phaseErrors *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cache       *prometheus.CounterVec
}

// NewPromHooks creates PromHooks with all metrics registered.
func NewPromHooks() *PromHooks {
	h := &PromHooks{
		registry: prometheus.NewRegistry(),
		instances: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nmgraph_instances_collected",
			Help: "Number of installed package instances found in the last collection.",
		}),
		bindings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nmgraph_bindings_resolved",
			Help: "Number of requirements bound to an instance in the last resolution.",
		}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nmgraph_graph_nodes",
			Help: "Number of identities in the last built graph.",
		}),
		edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nmgraph_graph_edges",
			Help: "Number of edges in the last built graph.",
		}),
		diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nmgraph_diagnostics_total",
				Help: "Number of resolution diagnostics by code.",
			},
			[]string{"code"},
		),
		phaseErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nmgraph_phase_errors_total",
				Help: "Number of failed pipeline phases.",
			},
			[]string{"phase"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nmgraph_phase_duration_seconds",
				Help:    "Time taken by each pipeline phase.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"phase"},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nmgraph_cache_requests_total",
				Help: "Cache lookups by cache and result.",
			},
			[]string{"cache", "result"},
		),
	}
	h.registry.MustRegister(
		h.instances,
		h.bindings,
		h.nodes,
		h.edges,
		h.diagnostics,
		h.phaseErrors,
		h.duration,
		h.cache,
	)
	return h
}

// Registry returns the registry holding the metrics.
func (h *PromHooks) Registry() *prometheus.Registry { return h.registry }

// WriteTextfile writes the current metrics in the text exposition format,
// suitable for the node_exporter textfile collector.
func (h *PromHooks) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, h.registry)
}

func (h *PromHooks) phase(name string, d time.Duration, err error) {
	h.duration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		h.phaseErrors.WithLabelValues(name).Inc()
	}
}

func (h *PromHooks) OnCollectStart(context.Context, string) {}

func (h *PromHooks) OnCollectComplete(_ context.Context, _ string, instances int, d time.Duration, err error) {
	h.instances.Set(float64(instances))
	h.phase("collect", d, err)
}

func (h *PromHooks) OnResolveStart(context.Context, int) {}

func (h *PromHooks) OnResolveComplete(_ context.Context, bindings int, d time.Duration, err error) {
	h.bindings.Set(float64(bindings))
	h.phase("resolve", d, err)
}

func (h *PromHooks) OnDiagnostic(_ context.Context, code string) {
	h.diagnostics.WithLabelValues(code).Inc()
}

func (h *PromHooks) OnBuildComplete(_ context.Context, nodes, edges int, d time.Duration) {
	h.nodes.Set(float64(nodes))
	h.edges.Set(float64(edges))
	h.phase("build", d, nil)
}

func (h *PromHooks) OnRenderStart(context.Context, string) {}

func (h *PromHooks) OnRenderComplete(_ context.Context, _ string, d time.Duration, err error) {
	h.phase("render", d, err)
}

func (h *PromHooks) OnCacheStats(_ context.Context, cache string, hits, misses int64) {
	h.cache.WithLabelValues(cache, "hit").Add(float64(hits))
	h.cache.WithLabelValues(cache, "miss").Add(float64(misses))
}
