package lower

import (
	"testing"

	"github.com/omarflow/pxyzc/dsl"
	"github.com/omarflow/pxyzc/ir"
)

func ptr(s string) *string { return &s }

func simpleDocument() *dsl.Document {
	return &dsl.Document{
		Predicates: []dsl.PredicateDef{
			{ID: "is_admin", Expr: dsl.PredicateExpr{Kind: dsl.ExprEq, Left: "$role", Right: dsl.ParseValue("admin")}},
		},
		Workflows: []dsl.Workflow{
			{
				ID:    "wf1",
				Entry: dsl.EntryPoint{P: "user", X: "login", Node: "start"},
				Nodes: []dsl.Node{
					{ID: "start", Kind: "transform"},
					{ID: "gate", Kind: "auth", Predicate: ptr("is_admin")},
					{ID: "done", Kind: "terminal"},
				},
				Edges: []dsl.Edge{
					{From: "start", To: "gate", Predicate: &dsl.PredicateExpr{Kind: dsl.ExprAlways}},
					{From: "gate", To: "done", Predicate: &dsl.PredicateExpr{
						Kind: dsl.ExprGt, Left: "$attempts", Right: dsl.ParseValue("3"),
					}},
				},
			},
		},
	}
}

func TestLower(t *testing.T) {
	g, pending, err := Lower(simpleDocument())
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}

	t.Run("invariants hold", func(t *testing.T) {
		if err := ir.CheckInvariants(g); err != nil {
			t.Fatalf("CheckInvariants: %v", err)
		}
	})

	t.Run("named predicate registered", func(t *testing.T) {
		if _, ok := pending[1]; !ok {
			t.Fatalf("expected predicate id 1 pending, got %+v", pending)
		}
	})

	t.Run("auth node carries its predicate as opcode", func(t *testing.T) {
		gate := g.NodeByName("gate")
		if gate == nil {
			t.Fatal("gate node not found")
		}
		if gate.Opcode != ir.Opcode(1) {
			t.Errorf("gate.Opcode = %d, want 1", gate.Opcode)
		}
		if gate.AuthPredicate == nil || *gate.AuthPredicate != 1 {
			t.Errorf("gate.AuthPredicate = %v, want 1", gate.AuthPredicate)
		}
		if gate.Flags&ir.FlagRequiresAuth == 0 {
			t.Error("expected FlagRequiresAuth to be set")
		}
	})

	t.Run("always-true edge gets predicate id 0", func(t *testing.T) {
		edge := g.Edges[0]
		startGate := g.NodeByName("start").ID == edge.Source && g.NodeByName("gate").ID == edge.Target
		if !startGate {
			t.Fatalf("unexpected first edge: %+v", edge)
		}
		if edge.PredicateID != 0 {
			t.Errorf("PredicateID = %d, want 0 for an always-true edge", edge.PredicateID)
		}
	})

	t.Run("inline edge predicate is synthesized and pending", func(t *testing.T) {
		var found bool
		for _, e := range g.Edges {
			if e.PredicateID != 0 {
				found = true
				if _, ok := pending[e.PredicateID]; !ok {
					t.Errorf("synthesized predicate %d missing from pending", e.PredicateID)
				}
				if g.PredicateByID(e.PredicateID) == nil {
					t.Errorf("synthesized predicate %d missing from graph.Predicates", e.PredicateID)
				}
			}
		}
		if !found {
			t.Fatal("expected one edge with a synthesized predicate")
		}
	})

	t.Run("entry resolves to the start node with a matching hash", func(t *testing.T) {
		if len(g.Entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(g.Entries))
		}
		entry := g.Entries[0]
		if entry.NodeID != g.NodeByName("start").ID {
			t.Errorf("entry.NodeID = %d, want start node id", entry.NodeID)
		}
		if entry.Hash != ir.HashPX("user", "login") {
			t.Errorf("entry.Hash = %d, want HashPX(user,login)", entry.Hash)
		}
	})
}

func TestLowerErrors(t *testing.T) {
	t.Run("unknown node kind", func(t *testing.T) {
		doc := simpleDocument()
		doc.Workflows[0].Nodes[0].Kind = "bogus"
		if _, _, err := Lower(doc); err == nil {
			t.Fatal("expected an error for an unknown node kind")
		}
	})

	t.Run("unknown auth predicate reference", func(t *testing.T) {
		doc := simpleDocument()
		doc.Workflows[0].Nodes[1].Predicate = ptr("does_not_exist")
		if _, _, err := Lower(doc); err == nil {
			t.Fatal("expected an error for an unresolved predicate reference")
		}
	})

	t.Run("duplicate predicate name", func(t *testing.T) {
		doc := simpleDocument()
		doc.Predicates = append(doc.Predicates, dsl.PredicateDef{ID: "is_admin"})
		if _, _, err := Lower(doc); err == nil {
			t.Fatal("expected an error for a duplicate predicate name")
		}
	})

	t.Run("edge referencing an unknown node", func(t *testing.T) {
		doc := simpleDocument()
		doc.Workflows[0].Edges[0].To = "missing"
		if _, _, err := Lower(doc); err == nil {
			t.Fatal("expected an error for an edge to a nonexistent node")
		}
	})

	t.Run("malformed opcode literal", func(t *testing.T) {
		doc := simpleDocument()
		doc.Workflows[0].Nodes[0].Op = ptr("not-a-number")
		if _, _, err := Lower(doc); err == nil {
			t.Fatal("expected an error for a malformed opcode literal")
		}
	})
}
