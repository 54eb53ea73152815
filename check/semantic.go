package check

import (
	"fmt"

	"github.com/omarflow/pxyzc/diag"
	"github.com/omarflow/pxyzc/ir"
)

// Semantic runs the logical-coherence checks, in the fixed order SEM001
// through SEM007.
func Semantic(g *ir.Graph) []diag.Diagnostic {
	var out []diag.Diagnostic

	// SEM001: Auth node without a predicate.
	for _, n := range g.Nodes {
		if n.Kind == ir.Auth && n.AuthPredicate == nil {
			out = append(out, diag.Diagnostic{
				Severity: diag.Error, Code: "SEM001",
				Message:  fmt.Sprintf("auth node %q has no predicate", n.Name),
				Location: diag.Location{NodeID: fmt.Sprint(n.ID)},
			})
		}
	}

	// SEM002: External node with opcode 0.
	for _, n := range g.Nodes {
		if n.Kind == ir.External && n.Opcode == 0 {
			out = append(out, diag.Diagnostic{
				Severity: diag.Error, Code: "SEM002",
				Message:  fmt.Sprintf("external node %q has opcode 0", n.Name),
				Location: diag.Location{NodeID: fmt.Sprint(n.ID)},
			})
		}
	}

	// SEM003: Terminal node with >= 1 outgoing edge. Recomputed by walking
	// the edge list directly rather than trusting the node's cached
	// edge_count, since that cache is only guaranteed fresh immediately
	// after AssignEdgeIndices runs.
	for _, n := range g.Nodes {
		if n.Kind == ir.Terminal && len(g.OutgoingEdges(n.ID)) > 0 {
			out = append(out, diag.Diagnostic{
				Severity: diag.Warn, Code: "SEM003",
				Message:  fmt.Sprintf("terminal node %q has outgoing edges", n.Name),
				Location: diag.Location{NodeID: fmt.Sprint(n.ID)},
			})
		}
	}

	// SEM004: any cycle in the edge graph.
	if path, found := detectCycle(g); found {
		out = append(out, diag.Diagnostic{
			Severity: diag.Error, Code: "SEM004",
			Message: fmt.Sprintf("cycle detected: %s", path),
		})
	}

	// SEM005: node unreachable from any entry.
	reachable := reachableFromEntries(g)
	for _, n := range g.Nodes {
		if !reachable[n.ID] {
			out = append(out, diag.Diagnostic{
				Severity: diag.Warn, Code: "SEM005",
				Message:  fmt.Sprintf("node %q is unreachable from any entry point", n.Name),
				Location: diag.Location{NodeID: fmt.Sprint(n.ID)},
			})
		}
	}

	// SEM006: Error node with no incoming edges and not itself an entry.
	entryNodes := make(map[uint32]bool, len(g.Entries))
	for _, e := range g.Entries {
		entryNodes[e.NodeID] = true
	}
	for _, n := range g.Nodes {
		if n.Kind == ir.Error && len(g.IncomingEdges(n.ID)) == 0 && !entryNodes[n.ID] {
			out = append(out, diag.Diagnostic{
				Severity: diag.Warn, Code: "SEM006",
				Message:  fmt.Sprintf("error node %q is unreachable (no incoming edges, not an entry)", n.Name),
				Location: diag.Location{NodeID: fmt.Sprint(n.ID)},
			})
		}
	}

	// SEM007: Render node without a template.
	for _, n := range g.Nodes {
		if n.Kind == ir.Render && n.Template == "" {
			out = append(out, diag.Diagnostic{
				Severity: diag.Warn, Code: "SEM007",
				Message:  fmt.Sprintf("render node %q has no template", n.Name),
				Location: diag.Location{NodeID: fmt.Sprint(n.ID)},
			})
		}
	}

	return out
}
