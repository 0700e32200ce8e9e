package graph

import "context"

// PersistentState is the domain-owned, engine-opaque value threaded through
// a run. The manager mutates it through the three Update* hooks below and
// consults WarrantsTermination to decide whether the run should stop early,
// successfully, before the queue drains on its own.
type PersistentState[C any, N Node[N], St any, F any] interface {
	// UpdateOnNodeReached fires once per newly discovered, non-memorised
	// node, right after it is memorised and logged.
	UpdateOnNodeReached(ctx context.Context, ctxParam C, node N)
	// UpdateOnNextStepsCollected fires once per node, right after its
	// candidate next steps have been collected (possibly empty).
	UpdateOnNextStepsCollected(ctx context.Context, ctxParam C, node N, steps []St)
	// UpdateOnFiltered fires whenever any of the three filter pipelines
	// fires, carrying the FiltrationResult it produced.
	UpdateOnFiltered(ctx context.Context, ctxParam C, parent N, result F)
	// WarrantsTermination reports whether the process should stop now. It
	// is consulted after UpdateOnNodeReached and after UpdateOnFiltered;
	// UpdateOnNextStepsCollected is not followed by a check of its own.
	WarrantsTermination(ctx context.Context, ctxParam C) bool
}
