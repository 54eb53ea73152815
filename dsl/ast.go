// Package dsl defines the XML document structure this compiler ingests —
// schemas, named predicates, workflows (nodes, edges, entry point),
// render templates, and entity merge-policy declarations — along with an
// encoding/xml-based parser that turns source text into this AST.
package dsl

// Document is the root of a parsed source file.
type Document struct {
	Version    string
	Schemas    []Schema
	Predicates []PredicateDef
	Workflows  []Workflow
	Templates  []Template
	Merges     []EntityMerge
}

// Schema is a named, declared (but never payload-enforced) field shape.
type Schema struct {
	Name   string
	Fields []FieldDef
}

// FieldDef is a single field within a Schema.
type FieldDef struct {
	Name     string
	Type     string
	Required bool
	Default  *string
	Pattern  *string
}

// PredicateDef binds a name to a predicate expression so edges and auth
// gates can refer to it without repeating the expression inline.
type PredicateDef struct {
	ID   string
	Expr PredicateExpr
}

// PredicateExprKind discriminates the PredicateExpr variants.
type PredicateExprKind int

const (
	ExprAlways PredicateExprKind = iota
	ExprFail
	ExprEq
	ExprNeq
	ExprGt
	ExprGte
	ExprLt
	ExprLte
	ExprContains
	ExprMatches
	ExprStartsWith
	ExprEndsWith
	ExprAnd
	ExprOr
	ExprNot
	ExprRef
	ExprFn
)

// PredicateExpr is a node in a predicate expression tree. Only the fields
// relevant to Kind are populated; this mirrors the original source's enum
// shape as a tagged struct, the idiomatic Go rendering of a closed sum
// type with this many variants.
type PredicateExpr struct {
	Kind PredicateExprKind

	Left  string // Eq/Neq/Gt/Gte/Lt/Lte/Contains/Matches/StartsWith/EndsWith
	Right Value  // Eq/Neq/Gt/Gte/Lt/Lte

	ContainsRight string // Contains (plain string, not a Value)
	Pattern       string // Matches
	Prefix        string // StartsWith
	Suffix        string // EndsWith

	Conditions []PredicateExpr // And/Or
	Condition  *PredicateExpr  // Not

	Predicate string // Ref

	FnName string // Fn
	FnArg  string // Fn
}

// ValueKind discriminates the Value variants.
type ValueKind int

const (
	ValueInt ValueKind = iota
	ValueFloat
	ValueStr
	ValueBool
	ValueVar
)

// Value is a predicate operand literal (or, for ValueVar, a $-prefixed
// variable path already recognized by ParseValue).
type Value struct {
	Kind ValueKind
	Int  int64
	Float float64
	Str  string
	Bool bool
	Var  string
}

// ParseValue guesses a Value's kind from its textual form, exactly as the
// original source's Value::from_str_guess does: a leading '$' is a
// variable reference; failing that, try integer, then float, then the
// literal booleans "true"/"false", and fall back to a string literal.
func ParseValue(s string) Value {
	if len(s) > 0 && s[0] == '$' {
		return Value{Kind: ValueVar, Var: s}
	}
	if i, ok := parseInt64(s); ok {
		return Value{Kind: ValueInt, Int: i}
	}
	if f, ok := parseFloat64(s); ok {
		return Value{Kind: ValueFloat, Float: f}
	}
	if s == "true" {
		return Value{Kind: ValueBool, Bool: true}
	}
	if s == "false" {
		return Value{Kind: ValueBool, Bool: false}
	}
	return Value{Kind: ValueStr, Str: s}
}

// Workflow is one <workflow> block: its entry point, node list, and edge
// list.
type Workflow struct {
	ID          string
	Description *string
	Entry       EntryPoint
	Nodes       []Node
	Edges       []Edge
}

// EntryPoint is the workflow's single <entry p="..." x="..." node="..."/>.
type EntryPoint struct {
	P    string
	X    string
	Node string
}

// Node is one <node> declaration. Op is left as a raw string (decimal or
// 0x-hex literal) because parsing it is the lowerer's job, not the
// parser's — the parser only collects text, exactly as the original
// source's Node::op field does.
type Node struct {
	ID           string
	Kind         string // defaults to "transform" if the attribute is absent
	Op           *string
	Template     *string
	Schema       *string
	Predicate    *string
	Selector     *string
	Status       *uint16
	Message      *string
	Signals      [][2]string // (signal, value) pairs, in document order
	Actor        *string
	Confirmation *string
	Async        bool
	Cacheable    bool
	Data         map[string]string
}

// NewNode returns a Node with the same defaults the original source's
// custom Default impl establishes: kind "transform", everything else
// zero/empty.
func NewNode() Node {
	return Node{Kind: "transform", Data: make(map[string]string)}
}

// Edge is one <edge> declaration. Predicate is populated for edges that
// carried an inline <when> (or none at all, which defaults to Always);
// PredicateRef is reserved for a future named-reference attribute but is
// not populated by the current parser (edges always resolve through the
// inline Predicate field, matching the original source exactly).
type Edge struct {
	From         string
	To           string
	Predicate    *PredicateExpr
	PredicateRef *string
	Weight       *uint16
	Parallel     bool
	Fallback     bool
}

// Template is one <template id="..."> block; Content is all of its text
// and CDATA content concatenated in document order.
type Template struct {
	ID      string
	Content string
}

// MergePolicyKind enumerates the supported per-field conflict-resolution
// strategies, plus the two parameterized overrides (Custom, PreferOrigin).
type MergePolicyKind int

const (
	PolicyLWW MergePolicyKind = iota
	PolicyFWW
	PolicyVClock
	PolicyMax
	PolicyMin
	PolicyUnion
	PolicyIntersect
	PolicyHumanReview
	PolicyCustom
	PolicyPreferOrigin
)

// MergePolicy selects a strategy; Predicate/Actor are populated only for
// the Custom/PreferOrigin kinds respectively.
type MergePolicy struct {
	Kind      MergePolicyKind
	Predicate string // Custom
	Actor     string // PreferOrigin
}

// ParseMergePolicyName matches a policy name case-insensitively against
// every documented synonym, falling back to LWW on no match — exactly the
// original source's own fallback behavior.
func ParseMergePolicyName(name string) MergePolicy {
	switch toLower(name) {
	case "lww", "last-writer-wins", "lastwriterwins":
		return MergePolicy{Kind: PolicyLWW}
	case "fww", "first-writer-wins", "firstwriterwins":
		return MergePolicy{Kind: PolicyFWW}
	case "vclock", "vector-clock", "vectorclock":
		return MergePolicy{Kind: PolicyVClock}
	case "max", "maximum":
		return MergePolicy{Kind: PolicyMax}
	case "min", "minimum":
		return MergePolicy{Kind: PolicyMin}
	case "union", "set-union":
		return MergePolicy{Kind: PolicyUnion}
	case "intersect", "intersection", "set-intersect":
		return MergePolicy{Kind: PolicyIntersect}
	case "human", "human-review", "humanreview", "review":
		return MergePolicy{Kind: PolicyHumanReview}
	default:
		return MergePolicy{Kind: PolicyLWW}
	}
}

// FieldMerge binds a MergePolicy (with its Custom/PreferOrigin overrides
// already resolved) to one named field, plus an optional field-level
// validation predicate reference.
type FieldMerge struct {
	Field    string
	Policy   MergePolicy
	Validate *string
}

// EntityMerge is one <entity> block within a top-level <merge> (or the
// synonymous <merge_policies>) element.
type EntityMerge struct {
	Entity        string
	DefaultPolicy MergePolicy
	Fields        []FieldMerge
	PreCondition  *string
	PostValidate  *string
}
