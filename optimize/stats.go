// Package optimize implements the three IR-to-IR optimizer passes: dead-
// node elimination, predicate deduplication, and edge ordering. Each pass
// preserves the graph's structural invariants and is idempotent on its
// own output. Dead-node elimination reuses ir.AssignEdgeIndices for
// edge-range bookkeeping, since it has no ordering of its own to
// preserve; edge ordering imposes its own deliberate sort and calls
// ir.ReassignEdgeRanges instead, since AssignEdgeIndices would undo it.
package optimize

// Stats summarizes what a pass (or the full Run pipeline) removed, for
// the audit report and for tests.
type Stats struct {
	NodesRemoved      int
	EdgesRemoved      int
	PredicatesRemoved int
	BytesReclaimed    int
}

func (s *Stats) add(o Stats) {
	s.NodesRemoved += o.NodesRemoved
	s.EdgesRemoved += o.EdgesRemoved
	s.PredicatesRemoved += o.PredicatesRemoved
	s.BytesReclaimed += o.BytesReclaimed
}
