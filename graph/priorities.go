package graph

// Priorities lets a domain rank the relative evaluation order of sibling
// steps fired from the same node. Only relative ordering matters: a step
// with a numerically lower priority is dequeued, and therefore processed,
// before one with a higher priority among the same parent's batch.
type Priorities[St any] interface {
	GetPriorityOfStep(step St) int32
	Description() string
}

// GenericProcessPriorities wraps a domain Priorities policy with the
// engine-level option to shuffle steps that share a priority, rather than
// preserving the order CollectNextSteps returned them in.
type GenericProcessPriorities[St any] struct {
	Specific  Priorities[St]
	Randomize bool
}

// noPriorities is the zero-value fallback used when a Config is built
// without WithPriorities: every step ranks equally, so reorganizeByPriority
// reduces to "preserve handler-supplied order" (or shuffle it wholesale, if
// Randomize is set).
type noPriorities[St any] struct{}

func (noPriorities[St]) GetPriorityOfStep(St) int32 { return 0 }
func (noPriorities[St]) Description() string        { return "no priorities (stable order)" }
