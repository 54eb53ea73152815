package optimize

import (
	"sort"

	"github.com/omarflow/pxyzc/ir"
)

// OrderEdges stably sorts edges by (source_id, -weight, edge_id) so that
// within each source node's contiguous range, higher-weight edges come
// first, then reassigns edge ranges from that order. It uses
// ir.ReassignEdgeRanges rather than ir.AssignEdgeIndices, since the latter
// would re-sort edges by (source, id) and undo the weight ordering just
// established.
func OrderEdges(g *ir.Graph) {
	sort.SliceStable(g.Edges, func(i, j int) bool {
		a, b := g.Edges[i], g.Edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		return a.ID < b.ID
	})
	ir.ReassignEdgeRanges(g)
}

// Run executes all three passes in the documented order — dead-node
// elimination, predicate deduplication, edge ordering — and returns their
// combined statistics.
func Run(g *ir.Graph) Stats {
	var total Stats
	total.add(EliminateDeadNodes(g))
	total.add(DeduplicatePredicates(g))
	OrderEdges(g)
	return total
}
