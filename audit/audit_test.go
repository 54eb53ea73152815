package audit

import (
	"testing"

	"github.com/omarflow/pxyzc/diag"
	"github.com/omarflow/pxyzc/ir"
	"github.com/omarflow/pxyzc/optimize"
)

func TestBuild(t *testing.T) {
	g := ir.NewGraph()
	g.Nodes = []ir.Node{
		{ID: 0, Name: "start", Kind: ir.Transform},
		{ID: 1, Name: "end", Kind: ir.Terminal},
		{ID: 2, Name: "other", Kind: ir.Transform},
	}
	g.Predicates = []ir.Predicate{{ID: 1, Name: "p", Bytecode: []byte{0x01, 0x00}}}
	g.Entries = []ir.Entry{{P: "user", X: "login", NodeID: 0, Hash: ir.HashPX("user", "login")}}

	diagnostics := []diag.Diagnostic{
		{Severity: diag.Error, Code: "SYN001"},
		{Severity: diag.Warn, Code: "SEM002"},
		{Severity: diag.Warn, Code: "SEM003"},
	}
	stats := optimize.Stats{NodesRemoved: 2, EdgesRemoved: 1}

	a := Build(g, diagnostics, stats)

	if a.NodeKindCounts["transform"] != 2 {
		t.Errorf("transform count = %d, want 2 (%+v)", a.NodeKindCounts["transform"], a.NodeKindCounts)
	}
	if a.NodeKindCounts["terminal"] != 1 {
		t.Errorf("terminal count = %d, want 1", a.NodeKindCounts["terminal"])
	}
	if a.DiagnosticCounts["error"] != 1 {
		t.Errorf("error count = %d, want 1", a.DiagnosticCounts["error"])
	}
	if a.DiagnosticCounts["warn"] != 2 {
		t.Errorf("warn count = %d, want 2", a.DiagnosticCounts["warn"])
	}
	if a.OptimizerStats != stats {
		t.Errorf("OptimizerStats = %+v, want %+v", a.OptimizerStats, stats)
	}
	if _, ok := a.PredicateDisasm[1]; !ok {
		t.Error("expected predicate 1 to have a disassembly entry")
	}
	if len(a.Entries) != 1 || a.Entries[0].P != "user" || a.Entries[0].X != "login" {
		t.Errorf("unexpected Entries: %+v", a.Entries)
	}
}
