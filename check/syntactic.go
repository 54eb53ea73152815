package check

import (
	"fmt"

	"github.com/omarflow/pxyzc/diag"
	"github.com/omarflow/pxyzc/ir"
)

// Syntactic runs the structural reference-integrity checks, in the fixed
// order SYN001 through SYN007.
func Syntactic(g *ir.Graph) []diag.Diagnostic {
	var out []diag.Diagnostic

	nodeIDs := make(map[uint32]*ir.Node, len(g.Nodes))
	for i := range g.Nodes {
		nodeIDs[g.Nodes[i].ID] = &g.Nodes[i]
	}
	predIDs := make(map[uint16]bool, len(g.Predicates))
	for _, p := range g.Predicates {
		predIDs[p.ID] = true
	}

	// SYN001: edge target id not in node set.
	for _, e := range g.Edges {
		if _, ok := nodeIDs[e.Target]; !ok {
			out = append(out, diag.Diagnostic{
				Severity: diag.Error, Code: "SYN001",
				Message:  fmt.Sprintf("edge %d targets unknown node %d", e.ID, e.Target),
				Location: diag.Location{EdgeID: fmt.Sprint(e.ID)},
			})
		}
	}

	// SYN002: entry's node id not in node set.
	for _, entry := range g.Entries {
		if _, ok := nodeIDs[entry.NodeID]; !ok {
			out = append(out, diag.Diagnostic{
				Severity: diag.Error, Code: "SYN002",
				Message:  fmt.Sprintf("entry (%s, %s) points to unknown node %d", entry.P, entry.X, entry.NodeID),
				Location: diag.Location{NodeID: fmt.Sprint(entry.NodeID)},
			})
		}
	}

	// SYN003: edge or node auth predicate id > 0 and not in predicate set.
	for _, e := range g.Edges {
		if e.PredicateID > 0 && !predIDs[e.PredicateID] {
			out = append(out, diag.Diagnostic{
				Severity: diag.Error, Code: "SYN003",
				Message:  fmt.Sprintf("edge %d references unknown predicate %d", e.ID, e.PredicateID),
				Location: diag.Location{EdgeID: fmt.Sprint(e.ID), PredicateID: fmt.Sprint(e.PredicateID)},
			})
		}
	}
	for _, n := range g.Nodes {
		if n.AuthPredicate != nil && *n.AuthPredicate > 0 && !predIDs[*n.AuthPredicate] {
			out = append(out, diag.Diagnostic{
				Severity: diag.Error, Code: "SYN003",
				Message:  fmt.Sprintf("node %q references unknown predicate %d", n.Name, *n.AuthPredicate),
				Location: diag.Location{NodeID: fmt.Sprint(n.ID), PredicateID: fmt.Sprint(*n.AuthPredicate)},
			})
		}
	}

	// SYN004: duplicate node id OR duplicate node name.
	seenID := make(map[uint32]bool, len(g.Nodes))
	seenName := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seenID[n.ID] {
			out = append(out, diag.Diagnostic{
				Severity: diag.Error, Code: "SYN004",
				Message:  fmt.Sprintf("duplicate node id %d", n.ID),
				Location: diag.Location{NodeID: fmt.Sprint(n.ID)},
			})
		}
		seenID[n.ID] = true
		if seenName[n.Name] {
			out = append(out, diag.Diagnostic{
				Severity: diag.Error, Code: "SYN004",
				Message:  fmt.Sprintf("duplicate node name %q", n.Name),
				Location: diag.Location{NodeID: fmt.Sprint(n.ID)},
			})
		}
		seenName[n.Name] = true
	}

	// SYN005: zero entry points.
	if len(g.Entries) == 0 {
		out = append(out, diag.Diagnostic{
			Severity: diag.Error, Code: "SYN005",
			Message: "workflow has no entry points",
		})
	}

	// SYN006: two entries share the same (P, X) hash.
	seenHash := make(map[uint32]ir.Entry, len(g.Entries))
	for _, entry := range g.Entries {
		if prior, ok := seenHash[entry.Hash]; ok {
			out = append(out, diag.Diagnostic{
				Severity: diag.Error, Code: "SYN006",
				Message: fmt.Sprintf("entry (%s, %s) collides with (%s, %s) on dispatch hash %d",
					entry.P, entry.X, prior.P, prior.X, entry.Hash),
			})
			continue
		}
		seenHash[entry.Hash] = entry
	}

	// SYN007: edge source id not in node set.
	for _, e := range g.Edges {
		if _, ok := nodeIDs[e.Source]; !ok {
			out = append(out, diag.Diagnostic{
				Severity: diag.Error, Code: "SYN007",
				Message:  fmt.Sprintf("edge %d has unknown source %d", e.ID, e.Source),
				Location: diag.Location{EdgeID: fmt.Sprint(e.ID)},
			})
		}
	}

	return out
}
