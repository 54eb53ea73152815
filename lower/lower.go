// Package lower translates a parsed dsl.Document into the Graph
// intermediate representation the optimizer, analyzer, and emitter share.
//
// Predicate expressions are not compiled to bytecode here — that is the
// bytecode package's job. Lower instead returns a PendingExprs table
// mapping each predicate id it allocated (named or synthesized) to the
// AST expression that still needs compiling, so the caller can run the
// bytecode compiler as a distinct pipeline stage.
package lower

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/omarflow/pxyzc/dsl"
	"github.com/omarflow/pxyzc/ir"
)

// PendingExprs maps a predicate id to the expression that must still be
// compiled to bytecode before the predicate can be used.
type PendingExprs map[uint16]dsl.PredicateExpr

// Lower runs the full three-pass translation described in the component
// design: predicates first, then per-workflow nodes and edges, then
// merge-policy declarations, finishing with a single AssignEdgeIndices
// call so the returned graph already satisfies the edge-contiguity
// invariant.
func Lower(doc *dsl.Document) (*ir.Graph, PendingExprs, error) {
	g := ir.NewGraph()
	pending := make(PendingExprs)

	predNameToID := make(map[string]uint16)
	var nextPredID uint16 = 1

	for _, def := range doc.Predicates {
		if _, dup := predNameToID[def.ID]; dup {
			return nil, nil, &DuplicatePredicateError{Name: def.ID}
		}
		id := nextPredID
		nextPredID++
		predNameToID[def.ID] = id
		g.Predicates = append(g.Predicates, ir.Predicate{ID: id, Name: def.ID})
		pending[id] = def.Expr
	}

	var nextNodeID uint32
	var nextEdgeID uint32
	workflowNodeIDs := make(map[string]map[string]uint32, len(doc.Workflows))

	for _, wf := range doc.Workflows {
		nameToID := make(map[string]uint32, len(wf.Nodes))
		for _, n := range wf.Nodes {
			kind, ok := ir.ParseNodeKind(n.Kind)
			if !ok {
				return nil, nil, fmt.Errorf("lower: workflow %q: node %q: unknown kind %q", wf.ID, n.ID, n.Kind)
			}

			node := ir.Node{
				ID:   nextNodeID,
				Name: n.ID,
				Kind: kind,
			}
			nextNodeID++

			if n.Op != nil {
				op, err := parseOpcodeLiteral(*n.Op)
				if err != nil {
					return nil, nil, &MalformedOpcodeError{Workflow: wf.ID, Node: n.ID, Literal: *n.Op}
				}
				node.Opcode = op
			}
			node.SideEffects = ir.ClassifySideEffects(node.Opcode)

			if n.Async {
				node.Flags |= ir.FlagAsync
			}
			if n.Cacheable {
				node.Flags |= ir.FlagCacheable
			}
			switch node.SideEffects {
			case ir.WriteSideEffects:
				node.Flags |= ir.FlagHasSideEffects
			case ir.IrreversibleSideEffects:
				node.Flags |= ir.FlagHasSideEffects | ir.FlagIrreversible
			}

			if n.Actor != nil && strings.EqualFold(*n.Actor, "human") {
				node.Actor = ir.Human
				node.Flags |= ir.FlagRequiresHuman
			}

			if n.Confirmation != nil {
				switch strings.ToLower(*n.Confirmation) {
				case "suggested":
					node.Confirmation = ir.Suggested
				case "quarantined":
					node.Confirmation = ir.Quarantined
				default:
					node.Confirmation = ir.Confirmed
				}
			}

			if n.Predicate != nil {
				id, ok := predNameToID[*n.Predicate]
				if !ok {
					return nil, nil, &UnknownPredicateError{Name: *n.Predicate}
				}
				node.AuthPredicate = &id
				node.Flags |= ir.FlagRequiresAuth
				if kind == ir.Auth {
					node.Opcode = ir.Opcode(id)
				}
			}

			if n.Template != nil {
				node.Template = *n.Template
			}
			if n.Selector != nil {
				node.Selector = *n.Selector
			}
			if n.Status != nil {
				node.Status = strconv.FormatUint(uint64(*n.Status), 10)
			}
			if n.Message != nil {
				node.Message = *n.Message
			}

			if data := canonicalNodeData(n); data != "" {
				off, err := g.Strings.Intern(data)
				if err != nil {
					return nil, nil, fmt.Errorf("lower: workflow %q: node %q: %w", wf.ID, n.ID, err)
				}
				node.DataOffset = off
			}

			g.Nodes = append(g.Nodes, node)
			nameToID[n.ID] = node.ID
		}
		workflowNodeIDs[wf.ID] = nameToID
	}

	for _, wf := range doc.Workflows {
		nameToID := workflowNodeIDs[wf.ID]

		for _, e := range wf.Edges {
			sourceID, ok := nameToID[e.From]
			if !ok {
				return nil, nil, &UnknownNodeError{Workflow: wf.ID, Node: e.From}
			}
			targetID, ok := nameToID[e.To]
			if !ok {
				return nil, nil, &UnknownNodeError{Workflow: wf.ID, Node: e.To}
			}

			predID, err := resolveEdgePredicate(g, e, predNameToID, pending, &nextPredID)
			if err != nil {
				return nil, nil, err
			}

			edge := ir.Edge{
				ID:          nextEdgeID,
				Source:      sourceID,
				Target:      targetID,
				PredicateID: predID,
			}
			nextEdgeID++
			if e.Weight != nil {
				edge.Weight = *e.Weight
			}
			if e.Parallel {
				edge.Flags |= ir.FlagParallel
			}
			if e.Fallback {
				edge.Flags |= ir.FlagFallback
			}
			if target := g.NodeByID(targetID); target != nil && target.Kind == ir.Error {
				edge.Flags |= ir.FlagErrorEdge
			}

			g.Edges = append(g.Edges, edge)
		}

		entryNodeID, ok := nameToID[wf.Entry.Node]
		if !ok {
			return nil, nil, &UnknownNodeError{Workflow: wf.ID, Node: wf.Entry.Node}
		}
		g.Entries = append(g.Entries, ir.Entry{
			P:      wf.Entry.P,
			X:      wf.Entry.X,
			NodeID: entryNodeID,
			Hash:   ir.HashPX(wf.Entry.P, wf.Entry.X),
		})
	}

	for _, m := range doc.Merges {
		entity := ir.EntityMerge{
			Entity:  m.Entity,
			Default: convertMergePolicy(m.DefaultPolicy),
		}
		if m.PreCondition != nil {
			id, ok := predNameToID[*m.PreCondition]
			if !ok {
				return nil, nil, &UnknownPredicateError{Name: *m.PreCondition}
			}
			entity.PrePredicate = &id
		}
		if m.PostValidate != nil {
			id, ok := predNameToID[*m.PostValidate]
			if !ok {
				return nil, nil, &UnknownPredicateError{Name: *m.PostValidate}
			}
			entity.PostPredicate = &id
		}
		for _, f := range m.Fields {
			fm := ir.FieldMerge{Field: f.Field, Policy: convertMergePolicy(f.Policy)}
			if f.Validate != nil {
				id, ok := predNameToID[*f.Validate]
				if !ok {
					return nil, nil, &UnknownPredicateError{Name: *f.Validate}
				}
				fm.Validate = &id
			}
			entity.Fields = append(entity.Fields, fm)
		}
		g.Merges = append(g.Merges, entity)
	}

	ir.AssignEdgeIndices(g)

	return g, pending, nil
}

// resolveEdgePredicate implements the three-way guard resolution the
// component design calls for: a named reference, the implicit Always (id
// 0), or a fresh synthetic predicate for any other inline expression.
func resolveEdgePredicate(g *ir.Graph, e dsl.Edge, predNameToID map[string]uint16, pending PendingExprs, nextPredID *uint16) (uint16, error) {
	if e.PredicateRef != nil {
		id, ok := predNameToID[*e.PredicateRef]
		if !ok {
			return 0, &UnknownPredicateError{Name: *e.PredicateRef}
		}
		return id, nil
	}

	expr := e.Predicate
	if expr == nil || expr.Kind == dsl.ExprAlways {
		return 0, nil
	}
	if expr.Kind == dsl.ExprRef {
		id, ok := predNameToID[expr.Predicate]
		if !ok {
			return 0, &UnknownPredicateError{Name: expr.Predicate}
		}
		return id, nil
	}

	id := *nextPredID
	*nextPredID++
	pending[id] = *expr
	g.Predicates = append(g.Predicates, ir.Predicate{ID: id, Name: fmt.Sprintf("$edge_predicate_%d", id)})
	return id, nil
}

func convertMergePolicy(p dsl.MergePolicy) ir.MergePolicy {
	return ir.MergePolicy{
		Kind:            ir.MergePolicyKind(p.Kind),
		CustomPredicate: p.Predicate,
		PreferActor:     p.Actor,
	}
}

// parseOpcodeLiteral accepts a plain decimal literal or a 0x/0X-prefixed
// hexadecimal literal, matching the node op attribute's documented forms.
func parseOpcodeLiteral(s string) (ir.Opcode, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, err
	}
	return ir.Opcode(v), nil
}

// canonicalNodeData renders a node's free-form <node data="..."> key/value
// pairs as a stable, sorted "k=v;k=v" string so identical data maps always
// intern to the same pool offset. An empty map yields the empty string,
// which the caller treats as "no data reference".
func canonicalNodeData(n dsl.Node) string {
	if len(n.Data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(n.Data))
	for k := range n.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(n.Data[k])
	}
	return sb.String()
}

