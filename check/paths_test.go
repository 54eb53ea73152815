package check

import (
	"testing"

	"github.com/omarflow/pxyzc/ir"
)

func TestShortestPath(t *testing.T) {
	g := ir.NewGraph()
	g.Nodes = []ir.Node{
		{ID: 0, Name: "a"}, {ID: 1, Name: "b"}, {ID: 2, Name: "c"}, {ID: 3, Name: "d"},
	}
	// Two routes from a to d: a->b->d (length 2) and a->c->? no connection to d.
	g.Edges = []ir.Edge{
		{ID: 0, Source: 0, Target: 1},
		{ID: 1, Source: 1, Target: 3},
		{ID: 2, Source: 0, Target: 2},
	}
	ir.AssignEdgeIndices(g)

	t.Run("finds the connecting path", func(t *testing.T) {
		path, ok := shortestPath(g, 0, 3)
		if !ok {
			t.Fatal("expected a path from 0 to 3")
		}
		want := []uint32{0, 1, 3}
		if len(path) != len(want) {
			t.Fatalf("path = %v, want %v", path, want)
		}
		for i := range want {
			if path[i] != want[i] {
				t.Fatalf("path = %v, want %v", path, want)
			}
		}
	})

	t.Run("no path reports false", func(t *testing.T) {
		if _, ok := shortestPath(g, 2, 3); ok {
			t.Fatal("expected no path from 2 to 3")
		}
	})

	t.Run("source equals target returns a single-node path", func(t *testing.T) {
		path, ok := shortestPath(g, 0, 0)
		if !ok || len(path) != 1 || path[0] != 0 {
			t.Fatalf("path = %v, ok = %v", path, ok)
		}
	})
}

func TestInterior(t *testing.T) {
	t.Run("excludes both endpoints", func(t *testing.T) {
		g := ir.NewGraph()
		g.Nodes = []ir.Node{{ID: 0, Name: "a"}, {ID: 1, Name: "b"}, {ID: 2, Name: "c"}}
		interiorNodes := interior(g, []uint32{0, 1, 2})
		if len(interiorNodes) != 1 || interiorNodes[0].Name != "b" {
			t.Fatalf("unexpected interior: %+v", interiorNodes)
		}
	})

	t.Run("two-node path has no interior", func(t *testing.T) {
		g := ir.NewGraph()
		if got := interior(g, []uint32{0, 1}); got != nil {
			t.Fatalf("expected nil interior, got %+v", got)
		}
	})
}

func TestDetectCycle(t *testing.T) {
	t.Run("acyclic graph reports none", func(t *testing.T) {
		g := twoNodeGraph()
		if _, found := detectCycle(g); found {
			t.Fatal("expected no cycle")
		}
	})

	t.Run("self-referential edge is a cycle", func(t *testing.T) {
		g := ir.NewGraph()
		g.Nodes = []ir.Node{{ID: 0, Name: "loop"}}
		g.Edges = []ir.Edge{{ID: 0, Source: 0, Target: 0}}
		ir.AssignEdgeIndices(g)
		path, found := detectCycle(g)
		if !found {
			t.Fatal("expected a cycle")
		}
		if path == "" {
			t.Error("expected a non-empty cycle description")
		}
	})

	t.Run("three-node cycle is detected", func(t *testing.T) {
		g := ir.NewGraph()
		g.Nodes = []ir.Node{{ID: 0, Name: "a"}, {ID: 1, Name: "b"}, {ID: 2, Name: "c"}}
		g.Edges = []ir.Edge{
			{ID: 0, Source: 0, Target: 1},
			{ID: 1, Source: 1, Target: 2},
			{ID: 2, Source: 2, Target: 0},
		}
		ir.AssignEdgeIndices(g)
		if _, found := detectCycle(g); !found {
			t.Fatal("expected a cycle")
		}
	})
}
