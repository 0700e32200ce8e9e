package graph

// NodeMemoiser turns tree exploration into DAG exploration by recognising
// when a freshly computed node is already covered by one seen before. The
// memoising variant keeps entries in insertion order and scans them
// linearly: because IsIncludedForMemoization need not be symmetric, several
// memorised entries could match a candidate, and the contract is that the
// first one inserted wins. That rules out a Go map as the backing store —
// maps give no iteration-order guarantee — so entries are kept in a slice.
// The not-memoising variant never matches anything.
type NodeMemoiser[N Node[N]] struct {
	memoizing bool
	entries   []memoEntry[N]
}

type memoEntry[N Node[N]] struct {
	node N
	id   uint32
}

func newNodeMemoiser[N Node[N]](memoizing bool) *NodeMemoiser[N] {
	return &NodeMemoiser[N]{memoizing: memoizing}
}

// CheckMemo reports the id of the first memorised node (in insertion order)
// that candidate is included for, if any.
func (m *NodeMemoiser[N]) CheckMemo(candidate N) (uint32, bool) {
	if !m.memoizing {
		return 0, false
	}
	for _, e := range m.entries {
		if candidate.IsIncludedForMemoization(e.node) {
			return e.id, true
		}
	}
	return 0, false
}

// MemoizeNewNode records node under id. A no-op when the memoiser was
// configured not to memoise.
func (m *NodeMemoiser[N]) MemoizeNewNode(node N, id uint32) {
	if !m.memoizing {
		return
	}
	m.entries = append(m.entries, memoEntry[N]{node: node, id: id})
}
