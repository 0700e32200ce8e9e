package graph

import "context"

// NodePreFilter is tried as soon as a newly discovered, non-memorised node
// is reached, before its outgoing steps are even collected. Apply returns a
// domain-supplied FiltrationResult and fired=true to short-circuit the rest
// of the node's exploration (it is then treated as having no children);
// fired=false means the filter did not match and the next one should run.
type NodePreFilter[C any, N Node[N], S any, F any] interface {
	Apply(ctx context.Context, ctxParam C, state *S, node N) (F, bool)
	Description() string
}

// NodePostFilter is tried once a node's candidate next steps have been
// collected, before any of them are enqueued.
type NodePostFilter[C any, N Node[N], St any, S any, F any] interface {
	Apply(ctx context.Context, ctxParam C, state *S, node N, steps []St) (F, bool)
	Description() string
}

// StepFilter is tried once per dequeued step, before it is handed to the
// AlgorithmOperationHandler. A fired StepFilter aborts just that one step
// without touching its siblings.
type StepFilter[C any, N Node[N], St any, S any, F any] interface {
	Apply(ctx context.Context, ctxParam C, state *S, parent N, step St) (F, bool)
	Description() string
}

// FiltersManager holds the three filter pipelines and applies each with
// first-match, short-circuit semantics: filters run in slice order and the
// first one to fire wins, later filters in the same pipeline are skipped.
type FiltersManager[C any, N Node[N], St any, S any, F any] struct {
	NodePre  []NodePreFilter[C, N, S, F]
	NodePost []NodePostFilter[C, N, St, S, F]
	Step     []StepFilter[C, N, St, S, F]
}

func (fm *FiltersManager[C, N, St, S, F]) applyNodePreFilters(ctx context.Context, ctxParam C, state *S, node N) (F, bool) {
	for _, filter := range fm.NodePre {
		if result, fired := filter.Apply(ctx, ctxParam, state, node); fired {
			return result, true
		}
	}
	var zero F
	return zero, false
}

func (fm *FiltersManager[C, N, St, S, F]) applyNodePostFilters(ctx context.Context, ctxParam C, state *S, node N, steps []St) (F, bool) {
	for _, filter := range fm.NodePost {
		if result, fired := filter.Apply(ctx, ctxParam, state, node, steps); fired {
			return result, true
		}
	}
	var zero F
	return zero, false
}

func (fm *FiltersManager[C, N, St, S, F]) applyStepFilters(ctx context.Context, ctxParam C, state *S, parent N, step St) (F, bool) {
	for _, filter := range fm.Step {
		if result, fired := filter.Apply(ctx, ctxParam, state, parent, step); fired {
			return result, true
		}
	}
	var zero F
	return zero, false
}

// Descriptions reports the configured filters' descriptions in pipeline
// order, for loggers that record run parameterization (log_initialize).
func (fm *FiltersManager[C, N, St, S, F]) Descriptions() (nodePre, nodePost, step []string) {
	for _, filter := range fm.NodePre {
		nodePre = append(nodePre, filter.Description())
	}
	for _, filter := range fm.NodePost {
		nodePost = append(nodePost, filter.Description())
	}
	for _, filter := range fm.Step {
		step = append(step, filter.Description())
	}
	return nodePre, nodePost, step
}
