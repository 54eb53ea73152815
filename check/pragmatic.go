package check

import (
	"fmt"

	"github.com/omarflow/pxyzc/diag"
	"github.com/omarflow/pxyzc/ir"
)

// Pragmatic runs the policy/safety checks, in the fixed order PRAG001
// through PRAG005. Every check here is path-based; gate membership (did a
// guarding node intervene) is tested on the open interval between source
// and target — both endpoints excluded — and only a single BFS shortest
// path is ever examined per (source, target) pair, never an exhaustive
// enumeration of every path between them.
func Pragmatic(g *ir.Graph) []diag.Diagnostic {
	var out []diag.Diagnostic

	llmNodes := filterNodes(g, func(n *ir.Node) bool { return ir.IsLLMOp(n.Opcode) })
	irreversibleNodes := filterNodes(g, func(n *ir.Node) bool { return n.SideEffects == ir.IrreversibleSideEffects })
	writeNodes := filterNodes(g, func(n *ir.Node) bool { return n.SideEffects == ir.WriteSideEffects })
	suggestedNodes := filterNodes(g, func(n *ir.Node) bool { return n.Confirmation == ir.Suggested })
	quarantinedNodes := filterNodes(g, func(n *ir.Node) bool { return n.Confirmation == ir.Quarantined })

	// PRAG001: LLM node reaches an irreversible node with no Transform,
	// Auth, or Human-actor node gating the path.
	for _, src := range llmNodes {
		for _, dst := range irreversibleNodes {
			if src.ID == dst.ID {
				continue
			}
			path, ok := shortestPath(g, src.ID, dst.ID)
			if !ok {
				continue
			}
			gated := false
			for _, n := range interior(g, path) {
				if n.Kind == ir.Transform || n.Kind == ir.Auth || n.Actor == ir.Human {
					gated = true
					break
				}
			}
			if !gated {
				out = append(out, diag.Diagnostic{
					Severity: diag.Error, Code: "PRAG001",
					Message: fmt.Sprintf("LLM node %q reaches irreversible node %q with no gating node on the path", src.Name, dst.Name),
					Location: diag.Location{NodeID: fmt.Sprint(src.ID)},
				})
			}
		}
	}

	// PRAG002: write-class node has outgoing edges, none marked FALLBACK,
	// ERROR_EDGE, or targeting an Error node.
	for _, n := range writeNodes {
		edges := g.OutgoingEdges(n.ID)
		if len(edges) == 0 {
			continue
		}
		handled := false
		for _, e := range edges {
			if e.Flags.Has(ir.FlagFallback) || e.Flags.Has(ir.FlagErrorEdge) {
				handled = true
				break
			}
			if target := g.NodeByID(e.Target); target != nil && target.Kind == ir.Error {
				handled = true
				break
			}
		}
		if !handled {
			out = append(out, diag.Diagnostic{
				Severity: diag.Warn, Code: "PRAG002",
				Message:  fmt.Sprintf("write node %q has no fallback, error edge, or error-node target", n.Name),
				Location: diag.Location{NodeID: fmt.Sprint(n.ID)},
			})
		}
	}

	// PRAG003: irreversible node reachable from at least one entry, but no
	// reaching entry's shortest path has a Human-actor node on it.
	for _, n := range irreversibleNodes {
		reachedByAny := false
		gatedByAny := false
		for _, entry := range g.Entries {
			path, ok := shortestPath(g, entry.NodeID, n.ID)
			if !ok {
				continue
			}
			reachedByAny = true
			for _, in := range interior(g, path) {
				if in.Actor == ir.Human {
					gatedByAny = true
					break
				}
			}
		}
		if reachedByAny && !gatedByAny {
			out = append(out, diag.Diagnostic{
				Severity: diag.Error, Code: "PRAG003",
				Message:  fmt.Sprintf("irreversible node %q is reachable from an entry point with no human gate on any reaching path", n.Name),
				Location: diag.Location{NodeID: fmt.Sprint(n.ID)},
			})
		}
	}

	// PRAG004: Suggested node reaches an irreversible node with no
	// intervening Human-actor or Confirmed node.
	for _, src := range suggestedNodes {
		for _, dst := range irreversibleNodes {
			if src.ID == dst.ID {
				continue
			}
			path, ok := shortestPath(g, src.ID, dst.ID)
			if !ok {
				continue
			}
			gated := false
			for _, n := range interior(g, path) {
				if n.Actor == ir.Human || n.Confirmation == ir.Confirmed {
					gated = true
					break
				}
			}
			if !gated {
				out = append(out, diag.Diagnostic{
					Severity: diag.Error, Code: "PRAG004",
					Message: fmt.Sprintf("suggested node %q reaches irreversible node %q with no human or confirmed gate on the path", src.Name, dst.Name),
					Location: diag.Location{NodeID: fmt.Sprint(src.ID)},
				})
			}
		}
	}

	// PRAG005: Quarantined node has a direct edge to an External node with
	// side effects, or a direct edge to any irreversible node. Both
	// conditions are checked independently per outgoing edge.
	for _, n := range quarantinedNodes {
		for _, e := range g.OutgoingEdges(n.ID) {
			target := g.NodeByID(e.Target)
			if target == nil {
				continue
			}
			if target.Kind == ir.External && target.Flags.Has(ir.FlagHasSideEffects) {
				out = append(out, diag.Diagnostic{
					Severity: diag.Error, Code: "PRAG005",
					Message:  fmt.Sprintf("quarantined node %q has a direct edge to side-effecting external node %q", n.Name, target.Name),
					Location: diag.Location{NodeID: fmt.Sprint(n.ID), EdgeID: fmt.Sprint(e.ID)},
				})
			}
			if target.SideEffects == ir.IrreversibleSideEffects {
				out = append(out, diag.Diagnostic{
					Severity: diag.Error, Code: "PRAG005",
					Message:  fmt.Sprintf("quarantined node %q has a direct edge to irreversible node %q", n.Name, target.Name),
					Location: diag.Location{NodeID: fmt.Sprint(n.ID), EdgeID: fmt.Sprint(e.ID)},
				})
			}
		}
	}

	return out
}

func filterNodes(g *ir.Graph, pred func(*ir.Node) bool) []*ir.Node {
	var out []*ir.Node
	for i := range g.Nodes {
		if pred(&g.Nodes[i]) {
			out = append(out, &g.Nodes[i])
		}
	}
	return out
}
