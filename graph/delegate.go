package graph

import (
	"math/rand"
	"sort"
)

// queueDelegate owns the strategy-specific StepsQueue together with the map
// of nodes still awaiting one or more outstanding children, and applies
// priority reordering to every batch before it reaches the queue. It
// mirrors queue/delegate.rs's ProcessQueueDelegate.
type queueDelegate[N Node[N], St any] struct {
	strategy        Strategy
	priorities      GenericProcessPriorities[St]
	memorizedNodes  map[uint32]*MemorizedNode[N]
	queue           StepsQueue[St]
	rng             *rand.Rand
}

func newQueueDelegate[N Node[N], St any](strategy Strategy, priorities GenericProcessPriorities[St], rng *rand.Rand) *queueDelegate[N, St] {
	return &queueDelegate[N, St]{
		strategy:       strategy,
		priorities:     priorities,
		memorizedNodes: make(map[uint32]*MemorizedNode[N]),
		queue:          newStepsQueue[St](strategy),
		rng:            rng,
	}
}

func (d *queueDelegate[N, St]) getMemorizedNode(id uint32) *MemorizedNode[N] {
	node, ok := d.memorizedNodes[id]
	if !ok {
		panic(&EngineError{Message: "no memorised node for id", Code: "MISSING_MEMORISED_NODE"})
	}
	return node
}

// extractFromQueue pops the next step. When that pop consumes the last
// outstanding step of its parent, the parent's MemorizedNode is removed
// from the map and returned alongside the step; otherwise consumedParent is
// nil and the caller must still look the parent up via getMemorizedNode.
func (d *queueDelegate[N, St]) extractFromQueue() (step EnqueuedStep[St], consumedParent *MemorizedNode[N], ok bool) {
	step, parentID, exhausted, ok := d.queue.Dequeue()
	if !ok {
		return EnqueuedStep[St]{}, nil, false
	}
	if exhausted {
		node, present := d.memorizedNodes[parentID]
		if !present {
			panic(&EngineError{Message: "no memorised node for exhausted parent id", Code: "MISSING_MEMORISED_NODE"})
		}
		delete(d.memorizedNodes, parentID)
		return step, node, true
	}
	return step, nil, true
}

func (d *queueDelegate[N, St]) queueSetLastReachedHasNoChild() {
	d.queue.SetLastReachedHasNoChild()
}

// enqueueNewSteps records parentNode under parentID and pushes its
// priority-reordered batch onto the queue. batch must be non-empty and
// parentID must not already be memorised; both are invariants maintained by
// the process manager, violating either is a programmer error.
func (d *queueDelegate[N, St]) enqueueNewSteps(parentNode *MemorizedNode[N], parentID uint32, batch []EnqueuedStep[St]) {
	if _, exists := d.memorizedNodes[parentID]; exists {
		panic(&EngineError{Message: "parent node id already memorised", Code: "DUPLICATE_MEMORISED_NODE", Cause: ErrDuplicateMemorisedNode})
	}
	if len(batch) == 0 {
		panic(&EngineError{Message: "refusing to enqueue an empty step batch", Code: "EMPTY_BATCH", Cause: ErrEmptyBatchDequeued})
	}
	d.memorizedNodes[parentID] = parentNode
	d.queue.Enqueue(parentID, d.reorganizeByPriority(batch))
}

// reorganizeByPriority buckets steps by priority key (descending), then
// concatenates the buckets in that order. Because every StepsQueue pops
// from the tail of a parent's batch, the bucket appended last — the
// numerically lowest priority key — ends up at the tail and dequeues
// first, which is what makes lower-integer-priority steps process before
// higher-integer-priority ones.
//
// Within a bucket, entries arrive in handler-supplied order; since a
// same-priority tie must still dequeue in that order (not reversed by the
// tail-pop), each bucket is reversed before being appended, unless
// randomize is set, in which case its order is irrelevant and it is
// shuffled instead.
func (d *queueDelegate[N, St]) reorganizeByPriority(batch []EnqueuedStep[St]) []EnqueuedStep[St] {
	buckets := make(map[int32][]EnqueuedStep[St])
	var keys []int32
	for _, step := range batch {
		priority := d.priorities.Specific.GetPriorityOfStep(step.Payload)
		if _, seen := buckets[priority]; !seen {
			keys = append(keys, priority)
		}
		buckets[priority] = append(buckets[priority], step)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })

	reorganized := make([]EnqueuedStep[St], 0, len(batch))
	for _, key := range keys {
		bucket := buckets[key]
		if d.priorities.Randomize {
			d.rng.Shuffle(len(bucket), func(i, j int) { bucket[i], bucket[j] = bucket[j], bucket[i] })
		} else {
			reverseSteps(bucket)
		}
		reorganized = append(reorganized, bucket...)
	}
	return reorganized
}

func reverseSteps[St any](steps []EnqueuedStep[St]) {
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
}
