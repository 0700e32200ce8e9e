package graph

import "context"

// Logger receives the seven lifecycle hooks the manager emits over the
// course of a run, always in the same relative order they occur in the
// traversal. A ProcessManager holds an ordered slice of Loggers and calls
// every one of them, in slice order, for each hook before continuing —
// implementations must be synchronous and must not block.
type Logger[C any, N Node[N], St any, S any, F any] interface {
	// LogInitialize fires once, before the initial node is processed.
	LogInitialize(ctx context.Context, ctxParam C, strategy Strategy, priorities GenericProcessPriorities[St], filters *FiltersManager[C, N, St, S, F], initialState S, memoization bool)
	// LogNewNode fires once per newly discovered, non-memorised node.
	LogNewNode(ctx context.Context, ctxParam C, nodeID uint32, node N)
	// LogNewStep fires once per step handed to the handler, after the
	// successor node id has been resolved (whether freshly allocated or
	// reused via memoisation).
	LogNewStep(ctx context.Context, ctxParam C, originNodeID uint32, step St, targetNodeID uint32)
	// LogNotifyLastChildStepOfNodeProcessed fires once a parent's last
	// outstanding step has been dequeued and processed.
	LogNotifyLastChildStepOfNodeProcessed(ctx context.Context, ctxParam C, parentNodeID uint32)
	// LogNotifyNodeWithoutChildren fires for a node that ends up with zero
	// processed children, whether because it had none, was pre/post
	// filtered, or every one of its steps was individually filtered.
	LogNotifyNodeWithoutChildren(ctx context.Context, ctxParam C, nodeID uint32)
	// LogFiltered fires whenever any filter pipeline fires.
	LogFiltered(ctx context.Context, ctxParam C, nodeID uint32, filtrationResultID uint32, result F)
	// LogTerminateProcess fires exactly once, at the very end of the run.
	LogTerminateProcess(ctx context.Context, ctxParam C, state S)
}
