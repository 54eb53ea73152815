// Package audit produces a human/CI-facing summary of a compilation,
// grounded in the original source's emit/audit.rs report. It is never
// consulted by the compiler itself and never affects the emitted binary
// — purely descriptive, opt-in via CompileOptions.EmitAudit.
package audit

import (
	"github.com/omarflow/pxyzc/bytecode"
	"github.com/omarflow/pxyzc/diag"
	"github.com/omarflow/pxyzc/ir"
	"github.com/omarflow/pxyzc/optimize"
)

// EntrySummary pairs a dispatch hash with the human-readable (P, X) pair
// that produced it.
type EntrySummary struct {
	P      string
	X      string
	NodeID uint32
	Hash   uint32
}

// GraphAudit is the full audit report for one compilation.
type GraphAudit struct {
	NodeKindCounts     map[string]int
	DiagnosticCounts   map[string]int // keyed by diag.Severity.String()
	OptimizerStats     optimize.Stats
	PredicateDisasm    map[uint16]string
	Entries            []EntrySummary
}

// Build assembles a GraphAudit from a compiled (and already-optimized, if
// requested) graph, its accumulated diagnostics, and the optimizer
// statistics gathered during this compilation.
func Build(g *ir.Graph, diagnostics []diag.Diagnostic, stats optimize.Stats) GraphAudit {
	a := GraphAudit{
		NodeKindCounts:   make(map[string]int),
		DiagnosticCounts: make(map[string]int),
		OptimizerStats:   stats,
		PredicateDisasm:  make(map[uint16]string, len(g.Predicates)),
	}

	for _, n := range g.Nodes {
		a.NodeKindCounts[n.Kind.String()]++
	}

	for _, d := range diagnostics {
		a.DiagnosticCounts[d.Severity.String()]++
	}

	for _, p := range g.Predicates {
		a.PredicateDisasm[p.ID] = bytecode.Disassemble(p.Bytecode, g.Strings)
	}

	for _, e := range g.Entries {
		a.Entries = append(a.Entries, EntrySummary{P: e.P, X: e.X, NodeID: e.NodeID, Hash: e.Hash})
	}

	return a
}
