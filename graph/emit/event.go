// Package emit provides pluggable observability backends for graph.Logger:
// a run's seven lifecycle hooks are funneled through an Emitter so the same
// run can be watched in memory, exported to OpenTelemetry, scraped by
// Prometheus, or archived to SQL without graph itself knowing which.
package emit

// Event is one observability record produced by adapting a graph.Logger
// hook call. Msg names the hook (e.g. "new_node", "filtered",
// "terminate_process"); Meta carries whatever additional structured detail
// that hook has to offer.
type Event struct {
	// RunID identifies which ProcessManager run produced this event. The
	// engine itself has no notion of a run id; callers set one (e.g. by
	// wrapping an Emitter per run) when they need to tell runs apart.
	RunID string

	// Step counts events within a run, 1-indexed, assigned by the adapter.
	Step int

	// NodeID identifies the node or parent the event concerns. Empty for
	// run-level events (initialize, terminate).
	NodeID string

	// Msg names the kind of event.
	Msg string

	// Meta holds event-specific structured data, e.g. "strategy",
	// "memoization", "filtration_result_id", "target_node_id".
	Meta map[string]any
}
