package lower

import "fmt"

// UnknownPredicateError reports a named predicate reference (from an edge,
// a node's require clause, or a merge guard) that never appears in the
// document's <predicates> block.
type UnknownPredicateError struct {
	Name string
}

func (e *UnknownPredicateError) Error() string {
	return fmt.Sprintf("lower: unknown predicate %q", e.Name)
}

// UnknownNodeError reports an edge endpoint or entry point naming a node
// that does not exist within its workflow.
type UnknownNodeError struct {
	Workflow string
	Node     string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("lower: workflow %q: unknown node %q", e.Workflow, e.Node)
}

// DuplicatePredicateError reports two top-level <predicate> declarations
// sharing the same id.
type DuplicatePredicateError struct {
	Name string
}

func (e *DuplicatePredicateError) Error() string {
	return fmt.Sprintf("lower: duplicate predicate name %q", e.Name)
}

// MalformedOpcodeError reports a node's op attribute that is neither a
// plain decimal literal nor a 0x-prefixed hex literal.
type MalformedOpcodeError struct {
	Workflow string
	Node     string
	Literal  string
}

func (e *MalformedOpcodeError) Error() string {
	return fmt.Sprintf("lower: workflow %q: node %q: malformed opcode literal %q", e.Workflow, e.Node, e.Literal)
}
