// Package ir holds the Graph intermediate representation: nodes, edges,
// compiled predicates, the interned string pool, entry points, and merge
// policies, along with the opcode classification tables and the FNV-1a
// entry-point hash the runtime dispatch table depends on.
package ir

import "strings"

// NodeKind classifies what a node does. The numeric values are the wire
// values written into the node record's kind byte — do not reorder.
type NodeKind uint8

const (
	Transform NodeKind = iota
	External
	Render
	Signal
	Auth
	Terminal
	Error
)

// String returns the lowercase wire name of the kind.
func (k NodeKind) String() string {
	switch k {
	case Transform:
		return "transform"
	case External:
		return "external"
	case Render:
		return "render"
	case Signal:
		return "signal"
	case Auth:
		return "auth"
	case Terminal:
		return "terminal"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ParseNodeKind parses a node kind name case-insensitively. Unrecognized
// names report ok=false so the caller can surface a Lower-phase error.
func ParseNodeKind(s string) (NodeKind, bool) {
	switch strings.ToLower(s) {
	case "transform":
		return Transform, true
	case "external":
		return External, true
	case "render":
		return Render, true
	case "signal":
		return Signal, true
	case "auth":
		return Auth, true
	case "terminal":
		return Terminal, true
	case "error":
		return Error, true
	default:
		return 0, false
	}
}

// NodeKindFromByte decodes a wire-format kind byte. Out-of-range bytes
// report ok=false.
func NodeKindFromByte(b byte) (NodeKind, bool) {
	if b > byte(Error) {
		return 0, false
	}
	return NodeKind(b), true
}

// ActorKind distinguishes automated agents from humans for pragmatic
// gating (PRAG001/003/004).
type ActorKind uint8

const (
	Agent ActorKind = iota
	Human
)

// SideEffects classifies the effect a node's opcode has on external state.
type SideEffects uint8

const (
	NoSideEffects SideEffects = iota
	WriteSideEffects
	IrreversibleSideEffects
)

// ConfirmationStatus tracks whether a node's output has been vetted by a
// human before it may flow into a side-effecting operation.
type ConfirmationStatus uint8

const (
	Confirmed ConfirmationStatus = iota
	Suggested
	Quarantined
)
