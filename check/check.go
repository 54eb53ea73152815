// Package check implements the three-tier static analyzer: syntactic
// reference integrity, semantic coherence, and pragmatic policy/safety
// checks. Every check appends diagnostics rather than aborting — a
// pass's errors never suppress a later pass's output — and within a
// tier, checks run in the fixed order the component design specifies.
package check

import (
	"github.com/omarflow/pxyzc/diag"
	"github.com/omarflow/pxyzc/ir"
)

// All runs every tier in order — Syntactic, then Semantic, then
// Pragmatic — and returns their diagnostics concatenated, earlier tiers
// first.
func All(g *ir.Graph) []diag.Diagnostic {
	var out []diag.Diagnostic
	out = append(out, Syntactic(g)...)
	out = append(out, Semantic(g)...)
	out = append(out, Pragmatic(g)...)
	return out
}
