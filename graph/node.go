package graph

// Node is the constraint a domain's node payload must satisfy so the engine
// can decide whether newly discovered nodes are already covered by one it
// has memorised. N is the node's own type: the constraint is intentionally
// F-bounded (self-referential) so a node only ever has to compare itself
// against others of its own type.
type Node[N any] interface {
	// IsIncludedForMemoization reports whether the receiver is subsumed by
	// an already-memorised node and therefore need not be explored
	// further. The relation is not required to be symmetric or even an
	// equivalence: a domain may use anything from pointer equality to a
	// structural subsumption order.
	IsIncludedForMemoization(memoized N) bool
}

// EnqueuedStep is a candidate transition queued for evaluation. Firing it
// means asking the configured AlgorithmOperationHandler to process
// ParentNodeID's node against Payload to obtain a successor node.
type EnqueuedStep[St any] struct {
	ParentNodeID uint32
	ChildOrdinal uint32
	Payload      St
}
