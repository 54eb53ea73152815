package ir

import "fmt"

// CheckInvariants verifies the structural invariants every IR must satisfy
// before being handed to the optimizer, analyzer, or emitter: dense unique
// node ids, unique node names, edge endpoint validity, entry node
// validity, predicate reference validity, and edge-range contiguity. It
// returns the first violation found, or nil.
//
// This is not part of the normal compile pipeline (the analyzer tiers
// report violations as diagnostics instead, without aborting); it exists
// for tests and for defensive assertions in development builds, mirroring
// the reference implementation's own debug-only assert_invariants.
func CheckInvariants(g *Graph) error {
	seenID := make(map[uint32]bool, len(g.Nodes))
	seenName := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seenID[n.ID] {
			return fmt.Errorf("duplicate node id %d", n.ID)
		}
		seenID[n.ID] = true
		if seenName[n.Name] {
			return fmt.Errorf("duplicate node name %q", n.Name)
		}
		seenName[n.Name] = true
	}

	predIDs := make(map[uint16]bool, len(g.Predicates))
	for _, p := range g.Predicates {
		predIDs[p.ID] = true
	}

	for _, e := range g.Edges {
		if !seenID[e.Source] {
			return fmt.Errorf("edge %d: source %d does not exist", e.ID, e.Source)
		}
		if !seenID[e.Target] {
			return fmt.Errorf("edge %d: target %d does not exist", e.ID, e.Target)
		}
		if e.PredicateID != 0 && !predIDs[e.PredicateID] {
			return fmt.Errorf("edge %d: predicate %d does not exist", e.ID, e.PredicateID)
		}
	}

	for _, entry := range g.Entries {
		if !seenID[entry.NodeID] {
			return fmt.Errorf("entry (%s,%s): node %d does not exist", entry.P, entry.X, entry.NodeID)
		}
	}

	for _, n := range g.Nodes {
		if n.AuthPredicate != nil && *n.AuthPredicate != 0 && !predIDs[*n.AuthPredicate] {
			return fmt.Errorf("node %d: auth predicate %d does not exist", n.ID, *n.AuthPredicate)
		}
	}

	for _, n := range g.Nodes {
		want := int(n.EdgeCount)
		got := 0
		for i := int(n.EdgeStart); i < len(g.Edges) && i < int(n.EdgeStart)+want; i++ {
			if g.Edges[i].Source != n.ID {
				return fmt.Errorf("node %d: edge range [%d,%d) contains a foreign edge at %d", n.ID, n.EdgeStart, int(n.EdgeStart)+want, i)
			}
			got++
		}
		if got != want {
			return fmt.Errorf("node %d: edge range [%d,%d) out of bounds", n.ID, n.EdgeStart, int(n.EdgeStart)+want)
		}
	}

	return nil
}
