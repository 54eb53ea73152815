package ir

import "sort"

// AssignEdgeIndices stably sorts g.Edges by (Source, ID) and then calls
// ReassignEdgeRanges to record each node's contiguous edge range.
//
// This is the shared implementation of an algorithm the reference compiler
// reimplemented three times (once in the lowerer, once in dead-code
// elimination, once in edge ordering). The lowerer and dead-code
// elimination have no ordering of their own to preserve, so both call this
// directly; a pass that imposes a different deliberate edge order (see
// optimize.OrderEdges) must call ReassignEdgeRanges instead, since this
// function's sort would undo it.
func AssignEdgeIndices(g *Graph) {
	sort.SliceStable(g.Edges, func(i, j int) bool {
		if g.Edges[i].Source != g.Edges[j].Source {
			return g.Edges[i].Source < g.Edges[j].Source
		}
		return g.Edges[i].ID < g.Edges[j].ID
	})
	ReassignEdgeRanges(g)
}

// ReassignEdgeRanges records, for every node, the contiguous
// [EdgeStart, EdgeStart+EdgeCount) range of its own outgoing edges within
// g.Edges' current order. It never reorders g.Edges itself — callers that
// need edges grouped by source first must sort before calling this.
func ReassignEdgeRanges(g *Graph) {
	for i := range g.Nodes {
		g.Nodes[i].EdgeStart = 0
		g.Nodes[i].EdgeCount = 0
	}

	nodeIndex := make(map[uint32]int, len(g.Nodes))
	for i := range g.Nodes {
		nodeIndex[g.Nodes[i].ID] = i
	}

	var i int
	for i < len(g.Edges) {
		source := g.Edges[i].Source
		start := i
		for i < len(g.Edges) && g.Edges[i].Source == source {
			i++
		}
		if idx, ok := nodeIndex[source]; ok {
			g.Nodes[idx].EdgeStart = uint16(start)
			g.Nodes[idx].EdgeCount = uint16(i - start)
		}
	}
}
