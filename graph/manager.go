package graph

import (
	"context"
	"math/rand"
)

// ProcessManager drives one run of the exploration to completion, or to
// early termination if the PersistentState ever requests it. It owns the
// global state, the loggers, the filters, the node memoiser, the
// identifier generator and the queue delegate, and is built with New.
//
// A ProcessManager runs exactly once: StartProcess returns false on a
// second call rather than repeating or corrupting the first run.
type ProcessManager[C any, N Node[N], St any, S PersistentState[C, N, St, F], F any] struct {
	ctxParam C

	handler  AlgorithmOperationHandler[C, N, St, S]
	delegate *queueDelegate[N, St]

	globalState S

	filters *FiltersManager[C, N, St, S, F]
	loggers []Logger[C, N, St, S, F]

	memoiser *NodeMemoiser[N]
	ids      *identifierGenerator

	// nodeHasProcessedChildTracker records, per parent node id, whether at
	// least one of its fired steps has been processed without being
	// filtered. Keyed by parent node id rather than by the individual
	// step's child ordinal: an earlier revision of this algorithm keyed it
	// by the ordinal of whichever step happened to be in flight, which
	// only coincidentally behaved correctly for single-child parents and
	// silently lost the "has this parent processed any child" fact
	// otherwise.
	nodeHasProcessedChildTracker map[uint32]struct{}

	started bool
}

// New builds a ProcessManager. cfg.Handler must be non-nil; every other
// Config field has a usable zero value and can be adjusted with the With*
// Options.
func New[C any, N Node[N], St any, S PersistentState[C, N, St, F], F any](cfg Config[C, N, St, S, F], initialState S, opts ...Option[C, N, St, S, F]) *ProcessManager[C, N, St, S, F] {
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Filters == nil {
		cfg.Filters = &FiltersManager[C, N, St, S, F]{}
	}
	if cfg.Priorities.Specific == nil {
		cfg.Priorities.Specific = noPriorities[St]{}
	}
	rng := rand.New(rand.NewSource(cfg.RandomSeed)) //nolint:gosec // deterministic shuffling, not security sensitive

	return &ProcessManager[C, N, St, S, F]{
		ctxParam:                     cfg.ContextParam,
		handler:                      cfg.Handler,
		delegate:                     newQueueDelegate[N, St](cfg.Strategy, cfg.Priorities, rng),
		globalState:                  initialState,
		filters:                      cfg.Filters,
		loggers:                      cfg.Loggers,
		memoiser:                     newNodeMemoiser[N](cfg.Memoization),
		ids:                          newIdentifierGenerator(),
		nodeHasProcessedChildTracker: make(map[uint32]struct{}),
	}
}

// StartProcess runs the exploration from initialNode to completion or early
// termination. It returns false without doing anything if this manager has
// already run once.
func (m *ProcessManager[C, N, St, S, F]) StartProcess(ctx context.Context, initialNode N) bool {
	if m.started {
		return false
	}
	m.started = true

	m.logInitialize(ctx)

	newNodeID := m.ids.Next()
	terminate := m.processNewNodeAndCheckTermination(ctx, initialNode, newNodeID)

	if !terminate {
		for {
			step, consumedParent, ok := m.delegate.extractFromQueue()
			if !ok {
				break
			}

			var parentNode N
			var parentExhausted bool
			if consumedParent != nil {
				delete(consumedParent.RemainingChildOrdinals, step.ChildOrdinal)
				parentNode = consumedParent.Payload
				parentExhausted = true
			} else {
				mem := m.delegate.getMemorizedNode(step.ParentNodeID)
				delete(mem.RemainingChildOrdinals, step.ChildOrdinal)
				parentNode = mem.Payload
				parentExhausted = len(mem.RemainingChildOrdinals) == 0
			}

			if m.processStepAndCheckTermination(ctx, step, parentNode, parentExhausted) {
				break
			}
		}
	}

	m.logTerminateProcess(ctx)
	return true
}

func (m *ProcessManager[C, N, St, S, F]) processStepAndCheckTermination(ctx context.Context, step EnqueuedStep[St], parentNode N, parentExhausted bool) bool {
	var warrantsTermination bool

	if result, fired := m.filters.applyStepFilters(ctx, m.ctxParam, &m.globalState, parentNode, step.Payload); fired {
		filtrationID := m.ids.Next()
		m.logFiltered(ctx, step.ParentNodeID, filtrationID, result)
		m.globalState.UpdateOnFiltered(ctx, m.ctxParam, parentNode, result)
		warrantsTermination = m.globalState.WarrantsTermination(ctx, m.ctxParam)
	} else {
		m.nodeHasProcessedChildTracker[step.ParentNodeID] = struct{}{}

		stepPayload := step.Payload
		successor := m.handler.ProcessNewStep(ctx, m.ctxParam, &m.globalState, parentNode, &stepPayload)

		successorID, alreadyKnown := m.memoiser.CheckMemo(successor)
		isNewNode := !alreadyKnown
		if isNewNode {
			successorID = m.ids.Next()
		}

		m.logNewStep(ctx, step.ParentNodeID, stepPayload, successorID)

		if isNewNode {
			warrantsTermination = m.processNewNodeAndCheckTermination(ctx, successor, successorID)
		}
	}

	if parentExhausted {
		_, hadProcessedChild := m.nodeHasProcessedChildTracker[step.ParentNodeID]
		if hadProcessedChild {
			delete(m.nodeHasProcessedChildTracker, step.ParentNodeID)
		} else {
			m.delegate.queueSetLastReachedHasNoChild()
			m.logNotifyNodeWithoutChildren(ctx, step.ParentNodeID)
		}
		m.logNotifyLastChildStepOfNodeProcessed(ctx, step.ParentNodeID)
	}

	return warrantsTermination
}

func (m *ProcessManager[C, N, St, S, F]) processNewNodeAndCheckTermination(ctx context.Context, newNode N, newNodeID uint32) bool {
	m.memoiser.MemoizeNewNode(newNode, newNodeID)
	m.logNewNode(ctx, newNodeID, newNode)
	m.globalState.UpdateOnNodeReached(ctx, m.ctxParam, newNode)

	if m.globalState.WarrantsTermination(ctx, m.ctxParam) {
		return true
	}

	hasNoChildren, warrantsTermination := m.exploreFromNewNode(ctx, newNode, newNodeID)

	if hasNoChildren {
		m.delegate.queueSetLastReachedHasNoChild()
		m.logNotifyNodeWithoutChildren(ctx, newNodeID)
	}
	return warrantsTermination
}

// exploreFromNewNode applies the node-pre filter, collects next steps,
// applies the node-post filter, and either enqueues the resulting batch or
// reports the node as childless. It returns hasNoChildren separately from
// warrantsTermination because the caller (processNewNodeAndCheckTermination)
// needs to react to the former (notify the queue and loggers) regardless of
// the latter.
func (m *ProcessManager[C, N, St, S, F]) exploreFromNewNode(ctx context.Context, newNode N, newNodeID uint32) (hasNoChildren, warrantsTermination bool) {
	if result, fired := m.filters.applyNodePreFilters(ctx, m.ctxParam, &m.globalState, newNode); fired {
		filtrationID := m.ids.Next()
		m.logFiltered(ctx, newNodeID, filtrationID, result)
		m.globalState.UpdateOnFiltered(ctx, m.ctxParam, newNode, result)
		return true, m.globalState.WarrantsTermination(ctx, m.ctxParam)
	}

	nextSteps := m.handler.CollectNextSteps(ctx, m.ctxParam, &m.globalState, newNode)
	m.globalState.UpdateOnNextStepsCollected(ctx, m.ctxParam, newNode, nextSteps)

	if result, fired := m.filters.applyNodePostFilters(ctx, m.ctxParam, &m.globalState, newNode, nextSteps); fired {
		filtrationID := m.ids.Next()
		m.logFiltered(ctx, newNodeID, filtrationID, result)
		m.globalState.UpdateOnFiltered(ctx, m.ctxParam, newNode, result)
		return true, m.globalState.WarrantsTermination(ctx, m.ctxParam)
	}

	if len(nextSteps) == 0 {
		return true, false
	}

	batch := make([]EnqueuedStep[St], len(nextSteps))
	ordinals := make([]uint32, len(nextSteps))
	for i, s := range nextSteps {
		ordinal := uint32(i + 1)
		batch[i] = EnqueuedStep[St]{ParentNodeID: newNodeID, ChildOrdinal: ordinal, Payload: s}
		ordinals[i] = ordinal
	}
	m.delegate.enqueueNewSteps(newMemorizedNode[N](newNode, ordinals), newNodeID, batch)

	return false, false
}

// GetLogger returns the logger at index i, or nil if i is out of range. It
// lets a caller that knows its own logger's concrete type (e.g. an
// emit.EventLogger whose BufferedEmitter holds the run's history) recover it without having
// kept a separate reference through New.
func (m *ProcessManager[C, N, St, S, F]) GetLogger(i int) Logger[C, N, St, S, F] {
	if i < 0 || i >= len(m.loggers) {
		return nil
	}
	return m.loggers[i]
}

func (m *ProcessManager[C, N, St, S, F]) logInitialize(ctx context.Context) {
	for _, l := range m.loggers {
		l.LogInitialize(ctx, m.ctxParam, m.delegate.strategy, m.delegate.priorities, m.filters, m.globalState, m.memoiser.memoizing)
	}
}

func (m *ProcessManager[C, N, St, S, F]) logNewNode(ctx context.Context, nodeID uint32, node N) {
	for _, l := range m.loggers {
		l.LogNewNode(ctx, m.ctxParam, nodeID, node)
	}
}

func (m *ProcessManager[C, N, St, S, F]) logNewStep(ctx context.Context, originNodeID uint32, step St, targetNodeID uint32) {
	for _, l := range m.loggers {
		l.LogNewStep(ctx, m.ctxParam, originNodeID, step, targetNodeID)
	}
}

func (m *ProcessManager[C, N, St, S, F]) logNotifyLastChildStepOfNodeProcessed(ctx context.Context, parentNodeID uint32) {
	for _, l := range m.loggers {
		l.LogNotifyLastChildStepOfNodeProcessed(ctx, m.ctxParam, parentNodeID)
	}
}

func (m *ProcessManager[C, N, St, S, F]) logNotifyNodeWithoutChildren(ctx context.Context, nodeID uint32) {
	for _, l := range m.loggers {
		l.LogNotifyNodeWithoutChildren(ctx, m.ctxParam, nodeID)
	}
}

func (m *ProcessManager[C, N, St, S, F]) logFiltered(ctx context.Context, nodeID uint32, filtrationResultID uint32, result F) {
	for _, l := range m.loggers {
		l.LogFiltered(ctx, m.ctxParam, nodeID, filtrationResultID, result)
	}
}

func (m *ProcessManager[C, N, St, S, F]) logTerminateProcess(ctx context.Context) {
	for _, l := range m.loggers {
		l.LogTerminateProcess(ctx, m.ctxParam, m.globalState)
	}
}
