package graph

// identifierGenerator issues strictly increasing identifiers, shared by
// node ids and filtration-result ids, starting at 1. It is not safe for
// concurrent use — the engine it backs is single-threaded by design.
type identifierGenerator struct {
	next uint32
}

func newIdentifierGenerator() *identifierGenerator {
	return &identifierGenerator{next: 1}
}

func (g *identifierGenerator) Next() uint32 {
	id := g.next
	g.next++
	return id
}
