// Package graph provides a generic, configurable graph-exploration engine.
//
// It drives an incremental search over an implicitly defined, possibly
// infinite directed graph whose structure is discovered on the fly:
// starting from a single initial node, the engine asks a domain-specific
// handler which steps may be fired from a node, processes each step to
// obtain a successor node, and repeats. The engine itself never decides
// what the graph means — term rewriting, runtime verification, reachability
// analysis, or model exploration are all external collaborators plugged in
// through the contracts in handler.go, state.go, filters.go and logger.go.
//
// The engine is strictly single-threaded and synchronous: a ProcessManager
// drains one EnqueuedStep at a time from a StepsQueue (BFS, DFS or HCS
// scheduling discipline), consulting a NodeMemoiser to turn tree exploration
// into DAG exploration, a FiltersManager to short-circuit parts of the
// search, and a PersistentState value that can request early termination.
package graph
