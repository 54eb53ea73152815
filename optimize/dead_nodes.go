package optimize

import "github.com/omarflow/pxyzc/ir"

// Wire record sizes, mirrored from the binary emitter's layout, used only
// to estimate bytes reclaimed for the audit report.
const (
	nodeRecordBytes = 16
	edgeRecordBytes = 12
)

// EliminateDeadNodes removes every node unreachable from any entry point,
// and every edge whose source or target was removed. Node ids are
// renumbered densely in original iteration order, edges' endpoints are
// remapped, entry-point node ids are remapped, and edge ranges are
// reassigned.
func EliminateDeadNodes(g *ir.Graph) Stats {
	reachable := make(map[uint32]bool, len(g.Nodes))
	var queue []uint32
	for _, e := range g.Entries {
		if !reachable[e.NodeID] {
			reachable[e.NodeID] = true
			queue = append(queue, e.NodeID)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, edge := range g.OutgoingEdges(id) {
			if !reachable[edge.Target] {
				reachable[edge.Target] = true
				queue = append(queue, edge.Target)
			}
		}
	}

	remap := make(map[uint32]uint32, len(g.Nodes))
	kept := make([]ir.Node, 0, len(g.Nodes))
	var nextID uint32
	for _, n := range g.Nodes {
		if !reachable[n.ID] {
			continue
		}
		remap[n.ID] = nextID
		n.ID = nextID
		nextID++
		kept = append(kept, n)
	}

	keptEdges := make([]ir.Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		srcOK := reachable[e.Source]
		dstOK := reachable[e.Target]
		if !srcOK || !dstOK {
			continue
		}
		e.Source = remap[e.Source]
		e.Target = remap[e.Target]
		keptEdges = append(keptEdges, e)
	}

	for i := range g.Entries {
		if newID, ok := remap[g.Entries[i].NodeID]; ok {
			g.Entries[i].NodeID = newID
		}
	}

	stats := Stats{
		NodesRemoved: len(g.Nodes) - len(kept),
		EdgesRemoved: len(g.Edges) - len(keptEdges),
	}
	stats.BytesReclaimed = stats.NodesRemoved*nodeRecordBytes + stats.EdgesRemoved*edgeRecordBytes

	g.Nodes = kept
	g.Edges = keptEdges
	ir.AssignEdgeIndices(g)

	return stats
}
