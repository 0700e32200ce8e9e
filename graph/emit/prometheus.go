package emit

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusEmitter exposes counters and a gauge for a run's traversal
// shape, namespaced "graphwalk_". It classifies incoming Events by Msg
// (the hook name an adapter.EventLogger stamped them with) rather than
// requiring any graph-specific type, so it works for any domain.
//
// Metrics:
//   - graphwalk_nodes_discovered_total{run_id}: new_node events.
//   - graphwalk_steps_processed_total{run_id}: new_step events.
//   - graphwalk_filtered_total{run_id,stage}: filtered events, labeled by
//     the event's "stage" meta field. EventLogger does not set that field,
//     so the filtered events it produces are counted under an empty stage.
//   - graphwalk_terminal_nodes_total{run_id}: node_without_children events.
//   - graphwalk_active_runs (gauge): runs that have been initialized but
//     not yet terminated.
type PrometheusEmitter struct {
	mu sync.Mutex

	nodesDiscovered *prometheus.CounterVec
	stepsProcessed  *prometheus.CounterVec
	filtered        *prometheus.CounterVec
	terminalNodes   *prometheus.CounterVec
	activeRuns      prometheus.Gauge
}

// NewPrometheusEmitter registers graphwalk's metrics on registry. Pass
// prometheus.DefaultRegisterer for the global registry, or a fresh
// prometheus.NewRegistry() to isolate a test or a single run.
func NewPrometheusEmitter(registry prometheus.Registerer) *PrometheusEmitter {
	factory := promauto.With(registry)
	return &PrometheusEmitter{
		nodesDiscovered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphwalk",
			Name:      "nodes_discovered_total",
			Help:      "Newly discovered, non-memorised nodes processed.",
		}, []string{"run_id"}),
		stepsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphwalk",
			Name:      "steps_processed_total",
			Help:      "Steps handed to the algorithm operation handler.",
		}, []string{"run_id"}),
		filtered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphwalk",
			Name:      "filtered_total",
			Help:      "Filter pipeline firings.",
		}, []string{"run_id", "stage"}),
		terminalNodes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphwalk",
			Name:      "terminal_nodes_total",
			Help:      "Nodes that ended up with zero processed children.",
		}, []string{"run_id"}),
		activeRuns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "graphwalk",
			Name:      "active_runs",
			Help:      "Runs initialized but not yet terminated.",
		}),
	}
}

func (p *PrometheusEmitter) Emit(event Event) {
	switch event.Msg {
	case "initialize":
		p.activeRuns.Inc()
	case "new_node":
		p.nodesDiscovered.WithLabelValues(event.RunID).Inc()
	case "new_step":
		p.stepsProcessed.WithLabelValues(event.RunID).Inc()
	case "filtered":
		stage, _ := event.Meta["stage"].(string)
		p.filtered.WithLabelValues(event.RunID, stage).Inc()
	case "notify_node_without_children":
		p.terminalNodes.WithLabelValues(event.RunID).Inc()
	case "terminate_process":
		p.activeRuns.Dec()
	}
}

func (p *PrometheusEmitter) EmitBatch(_ context.Context, events []Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range events {
		p.Emit(e)
	}
	return nil
}

func (p *PrometheusEmitter) Flush(context.Context) error { return nil }
