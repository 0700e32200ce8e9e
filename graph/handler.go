package graph

import "context"

// AlgorithmOperationHandler computes the engine's successor function. It is
// the one piece of the contract with no default, since it defines what the
// graph being explored actually is.
type AlgorithmOperationHandler[C any, N Node[N], St any, S any] interface {
	// ProcessNewStep fires a single step against its parent node to obtain
	// the resulting node. It may mutate state (e.g. to record the work it
	// did) and may mutate step in place before the manager logs it.
	ProcessNewStep(ctx context.Context, ctxParam C, state *S, parent N, step *St) N
	// CollectNextSteps enumerates every step that could be fired from node.
	// An empty result marks node as having no children.
	CollectNextSteps(ctx context.Context, ctxParam C, state *S, node N) []St
}
