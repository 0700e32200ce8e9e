package graph

// MemorizedNode is a node retained by the queue delegate while at least one
// of the steps fired from it is still outstanding in the StepsQueue.
type MemorizedNode[N Node[N]] struct {
	Payload N
	// RemainingChildOrdinals tracks which of this node's fired steps have
	// not yet been dequeued and processed, keyed by EnqueuedStep.ChildOrdinal.
	RemainingChildOrdinals map[uint32]struct{}
}

func newMemorizedNode[N Node[N]](payload N, ordinals []uint32) *MemorizedNode[N] {
	remaining := make(map[uint32]struct{}, len(ordinals))
	for _, ordinal := range ordinals {
		remaining[ordinal] = struct{}{}
	}
	return &MemorizedNode[N]{Payload: payload, RemainingChildOrdinals: remaining}
}
