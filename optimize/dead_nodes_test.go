package optimize

import (
	"testing"

	"github.com/omarflow/pxyzc/ir"
)

func TestEliminateDeadNodes(t *testing.T) {
	t.Run("removes unreachable nodes and their edges", func(t *testing.T) {
		g := ir.NewGraph()
		g.Nodes = []ir.Node{
			{ID: 0, Name: "entry"},
			{ID: 1, Name: "reachable"},
			{ID: 2, Name: "orphan"},
		}
		g.Edges = []ir.Edge{
			{ID: 0, Source: 0, Target: 1},
			{ID: 1, Source: 2, Target: 1},
		}
		g.Entries = []ir.Entry{{P: "p", X: "x", NodeID: 0}}
		ir.AssignEdgeIndices(g)

		stats := EliminateDeadNodes(g)

		if stats.NodesRemoved != 1 || stats.EdgesRemoved != 1 {
			t.Fatalf("stats = %+v, want 1 node and 1 edge removed", stats)
		}
		if len(g.Nodes) != 2 {
			t.Fatalf("expected 2 remaining nodes, got %d", len(g.Nodes))
		}
		for _, n := range g.Nodes {
			if n.Name == "orphan" {
				t.Fatal("orphan node should have been removed")
			}
		}
		if err := ir.CheckInvariants(g); err != nil {
			t.Fatalf("CheckInvariants after elimination: %v", err)
		}
	})

	t.Run("entry node id is remapped after renumbering", func(t *testing.T) {
		g := ir.NewGraph()
		g.Nodes = []ir.Node{
			{ID: 0, Name: "dead"},
			{ID: 1, Name: "entry"},
		}
		g.Entries = []ir.Entry{{P: "p", X: "x", NodeID: 1}}
		ir.AssignEdgeIndices(g)

		EliminateDeadNodes(g)

		if len(g.Nodes) != 1 || g.Nodes[0].Name != "entry" {
			t.Fatalf("unexpected remaining nodes: %+v", g.Nodes)
		}
		if g.Entries[0].NodeID != g.Nodes[0].ID {
			t.Errorf("entry.NodeID = %d, want %d", g.Entries[0].NodeID, g.Nodes[0].ID)
		}
	})

	t.Run("fully reachable graph is unchanged", func(t *testing.T) {
		g := ir.NewGraph()
		g.Nodes = []ir.Node{{ID: 0, Name: "a"}, {ID: 1, Name: "b"}}
		g.Edges = []ir.Edge{{ID: 0, Source: 0, Target: 1}}
		g.Entries = []ir.Entry{{P: "p", X: "x", NodeID: 0}}
		ir.AssignEdgeIndices(g)

		stats := EliminateDeadNodes(g)

		if stats.NodesRemoved != 0 || stats.EdgesRemoved != 0 {
			t.Fatalf("expected no removals, got %+v", stats)
		}
	})
}
