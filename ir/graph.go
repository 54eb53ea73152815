package ir

// Node is a single vertex in the graph IR. Id is a dense, unique,
// document-order identifier assigned by the lowerer and possibly
// renumbered by dead-code elimination.
type Node struct {
	ID         uint32
	Name       string
	Kind       NodeKind
	Opcode     Opcode // domain opcode for External; predicate id for Auth
	DataOffset uint32 // string pool offset for the node's data reference
	EdgeStart  uint16
	EdgeCount  uint16
	Flags      NodeFlags

	// Validation-only metadata: never written to the binary, consulted
	// only by the analyzer tiers.
	SideEffects    SideEffects
	Actor          ActorKind
	Confirmation   ConfirmationStatus
	AuthPredicate  *uint16 // resolved predicate id, nil if the Auth node has none
	Template       string
	Selector       string
	Status         string
	Message        string
}

// Edge is a single directed connection between two nodes, guarded by a
// predicate.
type Edge struct {
	ID          uint32
	Source      uint32
	Target      uint32
	PredicateID uint16 // 0 is the implicit always-true predicate
	Weight      uint16
	Flags       EdgeFlags
}

// Predicate is a compiled boolean expression. ID 0 is never allocated —
// it is the implicit always-true predicate and carries no bytecode.
type Predicate struct {
	ID       uint16
	Name     string
	Bytecode []byte
}

// Entry is a (P, X) coordinate mapped to a workflow entry node, along with
// its precomputed dispatch hash.
type Entry struct {
	P      string
	X      string
	NodeID uint32
	Hash   uint32
}

// MergePolicy is one field's conflict-resolution strategy within an
// EntityMerge declaration. Exactly one of the Kind-specific fields is
// meaningful at a time; see Kind.
type MergePolicy struct {
	Kind            MergePolicyKind
	CustomPredicate string // set when Kind == MergeCustom
	PreferActor     string // set when Kind == MergePreferOrigin
}

// MergePolicyKind enumerates the supported per-field merge strategies.
type MergePolicyKind uint8

const (
	MergeLWW MergePolicyKind = iota
	MergeFWW
	MergeVClock
	MergeMax
	MergeMin
	MergeUnion
	MergeIntersect
	MergeHumanReview
	MergeCustom
	MergePreferOrigin
)

// FieldMerge binds a MergePolicy to one named field of an entity. Validate
// is the resolved id of an optional field-level validation predicate, nil
// if the declaration named none.
type FieldMerge struct {
	Field    string
	Policy   MergePolicy
	Validate *uint16
}

// EntityMerge is a compiled <merge><entity> declaration: a default policy
// for fields not otherwise named, optional pre/post guard predicates, and
// a per-field policy table.
type EntityMerge struct {
	Entity  string
	Default MergePolicy
	// PrePredicate/PostPredicate are resolved predicate ids, or nil if the
	// declaration omitted that guard.
	PrePredicate  *uint16
	PostPredicate *uint16
	Fields        []FieldMerge
}

// Graph is the central intermediate representation produced by the
// lowerer and consumed by the optimizer, the analyzer tiers, and the
// binary emitter.
type Graph struct {
	Nodes      []Node
	Edges      []Edge
	Predicates []Predicate
	Entries    []Entry
	Merges     []EntityMerge
	Strings    *StringPool
}

// NewGraph returns an empty graph with an initialized string pool.
func NewGraph() *Graph {
	return &Graph{Strings: NewStringPool()}
}

// NodeByID returns a pointer to the node with the given id, or nil.
func (g *Graph) NodeByID(id uint32) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// NodeByName returns a pointer to the node with the given name, or nil.
func (g *Graph) NodeByName(name string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].Name == name {
			return &g.Nodes[i]
		}
	}
	return nil
}

// PredicateByID returns a pointer to the predicate with the given id, or
// nil. Id 0 always returns nil since it is the implicit always-true
// predicate and has no stored entry.
func (g *Graph) PredicateByID(id uint16) *Predicate {
	if id == 0 {
		return nil
	}
	for i := range g.Predicates {
		if g.Predicates[i].ID == id {
			return &g.Predicates[i]
		}
	}
	return nil
}

// OutgoingEdges returns every edge whose Source is the given node id.
// Callers that need this after AssignEdgeIndices has run should prefer
// slicing Edges[n.EdgeStart:n.EdgeStart+n.EdgeCount] directly; this
// helper exists for checks that must not trust the cached range (see
// SEM003 in the check package, which recomputes it deliberately).
func (g *Graph) OutgoingEdges(nodeID uint32) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// IncomingEdges returns every edge whose Target is the given node id.
func (g *Graph) IncomingEdges(nodeID uint32) []Edge {
	var in []Edge
	for _, e := range g.Edges {
		if e.Target == nodeID {
			in = append(in, e)
		}
	}
	return in
}
