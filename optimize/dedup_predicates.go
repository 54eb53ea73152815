package optimize

import "github.com/omarflow/pxyzc/ir"

// DeduplicatePredicates canonicalizes predicates by bytecode identity: it
// iterates predicates in id order, and for every predicate with
// non-empty bytecode, either records it as the canonical form for its
// byte string or, if that byte string has already been seen, remaps its
// id to the first-seen canonical id. Predicates with empty bytecode
// (still awaiting compilation) are left untouched and never collapsed.
// The remapping is applied to every edge's predicate id and every node's
// auth predicate, then non-canonical predicates are dropped.
func DeduplicatePredicates(g *ir.Graph) Stats {
	canonical := make(map[string]uint16)
	remap := make(map[uint16]uint16)
	keepAt := make(map[uint16]bool, len(g.Predicates))

	for _, p := range g.Predicates {
		if len(p.Bytecode) == 0 {
			keepAt[p.ID] = true
			continue
		}
		key := string(p.Bytecode)
		if canonID, seen := canonical[key]; seen {
			remap[p.ID] = canonID
			continue
		}
		canonical[key] = p.ID
		keepAt[p.ID] = true
	}

	var bytesReclaimed int
	kept := make([]ir.Predicate, 0, len(g.Predicates))
	for _, p := range g.Predicates {
		if keepAt[p.ID] {
			kept = append(kept, p)
			continue
		}
		bytesReclaimed += len(p.Bytecode)
	}
	removed := len(g.Predicates) - len(kept)
	g.Predicates = kept

	resolve := func(id uint16) uint16 {
		if id == 0 {
			return 0
		}
		if target, ok := remap[id]; ok {
			return target
		}
		return id
	}

	for i := range g.Edges {
		g.Edges[i].PredicateID = resolve(g.Edges[i].PredicateID)
	}
	for i := range g.Nodes {
		if g.Nodes[i].AuthPredicate != nil {
			resolved := resolve(*g.Nodes[i].AuthPredicate)
			g.Nodes[i].AuthPredicate = &resolved
		}
	}
	for i := range g.Merges {
		if g.Merges[i].PrePredicate != nil {
			resolved := resolve(*g.Merges[i].PrePredicate)
			g.Merges[i].PrePredicate = &resolved
		}
		if g.Merges[i].PostPredicate != nil {
			resolved := resolve(*g.Merges[i].PostPredicate)
			g.Merges[i].PostPredicate = &resolved
		}
		for j := range g.Merges[i].Fields {
			if g.Merges[i].Fields[j].Validate != nil {
				resolved := resolve(*g.Merges[i].Fields[j].Validate)
				g.Merges[i].Fields[j].Validate = &resolved
			}
		}
	}

	return Stats{PredicatesRemoved: removed, BytesReclaimed: bytesReclaimed}
}
