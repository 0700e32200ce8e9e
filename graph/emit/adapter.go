package emit

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dshills/graphwalk-go/graph"
)

// EventLogger adapts any Emitter into a graph.Logger by turning each of the
// seven lifecycle hooks into an Event. RunID is stamped on every event,
// letting one Emitter (e.g. a BufferedEmitter or a SQL table) distinguish
// concurrently inspected runs from each other after the fact, even though
// a single ProcessManager itself never runs more than once concurrently.
type EventLogger[C any, N graph.Node[N], St any, S any, F any] struct {
	RunID   string
	Emitter Emitter

	step int64
}

func NewEventLogger[C any, N graph.Node[N], St any, S any, F any](runID string, emitter Emitter) *EventLogger[C, N, St, S, F] {
	return &EventLogger[C, N, St, S, F]{RunID: runID, Emitter: emitter}
}

func (l *EventLogger[C, N, St, S, F]) nextStep() int {
	return int(atomic.AddInt64(&l.step, 1))
}

func (l *EventLogger[C, N, St, S, F]) LogInitialize(_ context.Context, _ C, strategy graph.Strategy, priorities graph.GenericProcessPriorities[St], filters *graph.FiltersManager[C, N, St, S, F], _ S, memoization bool) {
	nodePre, nodePost, step := filters.Descriptions()
	l.Emitter.Emit(Event{
		RunID: l.RunID,
		Step:  l.nextStep(),
		Msg:   "initialize",
		Meta: map[string]any{
			"strategy":          strategy.String(),
			"memoization":       memoization,
			"randomize":         priorities.Randomize,
			"node_pre_filters":  nodePre,
			"node_post_filters": nodePost,
			"step_filters":      step,
		},
	})
}

func (l *EventLogger[C, N, St, S, F]) LogNewNode(_ context.Context, _ C, nodeID uint32, node N) {
	l.Emitter.Emit(Event{
		RunID:  l.RunID,
		Step:   l.nextStep(),
		NodeID: fmt.Sprintf("%d", nodeID),
		Msg:    "new_node",
		Meta:   map[string]any{"node": fmt.Sprintf("%v", node)},
	})
}

func (l *EventLogger[C, N, St, S, F]) LogNewStep(_ context.Context, _ C, originNodeID uint32, step St, targetNodeID uint32) {
	l.Emitter.Emit(Event{
		RunID:  l.RunID,
		Step:   l.nextStep(),
		NodeID: fmt.Sprintf("%d", originNodeID),
		Msg:    "new_step",
		Meta: map[string]any{
			"step":           fmt.Sprintf("%v", step),
			"target_node_id": targetNodeID,
		},
	})
}

func (l *EventLogger[C, N, St, S, F]) LogNotifyLastChildStepOfNodeProcessed(_ context.Context, _ C, parentNodeID uint32) {
	l.Emitter.Emit(Event{
		RunID:  l.RunID,
		Step:   l.nextStep(),
		NodeID: fmt.Sprintf("%d", parentNodeID),
		Msg:    "notify_last_child_step_of_node_processed",
	})
}

func (l *EventLogger[C, N, St, S, F]) LogNotifyNodeWithoutChildren(_ context.Context, _ C, nodeID uint32) {
	l.Emitter.Emit(Event{
		RunID:  l.RunID,
		Step:   l.nextStep(),
		NodeID: fmt.Sprintf("%d", nodeID),
		Msg:    "notify_node_without_children",
	})
}

func (l *EventLogger[C, N, St, S, F]) LogFiltered(_ context.Context, _ C, nodeID uint32, filtrationResultID uint32, result F) {
	l.Emitter.Emit(Event{
		RunID:  l.RunID,
		Step:   l.nextStep(),
		NodeID: fmt.Sprintf("%d", nodeID),
		Msg:    "filtered",
		Meta: map[string]any{
			"filtration_result_id": filtrationResultID,
			"result":               fmt.Sprintf("%v", result),
		},
	})
}

func (l *EventLogger[C, N, St, S, F]) LogTerminateProcess(_ context.Context, _ C, state S) {
	l.Emitter.Emit(Event{
		RunID: l.RunID,
		Step:  l.nextStep(),
		Msg:   "terminate_process",
		Meta:  map[string]any{"final_state": fmt.Sprintf("%v", state)},
	})
}
