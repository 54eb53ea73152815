package dsl

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse decodes XML source text into a Document. It mirrors the original
// source's pull-parser structure — a depth-tracked, token-at-a-time decode
// loop — rather than a single struct-tag Unmarshal, because several
// elements here (<node>, <edge>) admit two distinct shapes (self-closing
// vs. has-children) that a whole-document unmarshal cannot distinguish
// the way this parser's element-by-element dispatch can.
func Parse(source string) (*Document, error) {
	dec := xml.NewDecoder(strings.NewReader(source))
	doc := &Document{Version: "1.0.0"}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml decode: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "omar":
			if v, ok := attr(start, "version"); ok {
				doc.Version = v
			}
		case "schemas":
			schemas, err := parseSchemas(dec)
			if err != nil {
				return nil, err
			}
			doc.Schemas = schemas
		case "predicates":
			preds, err := parsePredicates(dec)
			if err != nil {
				return nil, err
			}
			doc.Predicates = preds
		case "workflow":
			wf, err := parseWorkflow(dec, start)
			if err != nil {
				return nil, err
			}
			doc.Workflows = append(doc.Workflows, wf)
		case "templates":
			tmpls, err := parseTemplates(dec)
			if err != nil {
				return nil, err
			}
			doc.Templates = tmpls
		case "merge", "merge_policies":
			merges, err := parseMergePolicies(dec, start.Name.Local)
			if err != nil {
				return nil, err
			}
			doc.Merges = merges
		}
	}

	return doc, nil
}

func attr(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func attrOr(start xml.StartElement, name, def string) string {
	if v, ok := attr(start, name); ok {
		return v
	}
	return def
}

func attrPtr(start xml.StartElement, name string) *string {
	if v, ok := attr(start, name); ok {
		return &v
	}
	return nil
}

func attrBool(start xml.StartElement, name string) bool {
	v, ok := attr(start, name)
	return ok && v == "true"
}

func parseSchemas(dec *xml.Decoder) ([]Schema, error) {
	var schemas []Schema
	for {
		tok, err := dec.Token()
		if err == io.EOF || isEnd(tok, "schemas") {
			break
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "schema" {
			fields, err := parseSchemaFields(dec)
			if err != nil {
				return nil, err
			}
			schemas = append(schemas, Schema{Name: attrOr(start, "name", ""), Fields: fields})
		}
	}
	return schemas, nil
}

func parseSchemaFields(dec *xml.Decoder) ([]FieldDef, error) {
	var fields []FieldDef
	for {
		tok, err := dec.Token()
		if err == io.EOF || isEnd(tok, "schema") {
			break
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "field" {
			fields = append(fields, FieldDef{
				Name:     attrOr(start, "name", ""),
				Type:     attrOr(start, "type", "string"),
				Required: attrBool(start, "required"),
				Default:  attrPtr(start, "default"),
				Pattern:  attrPtr(start, "pattern"),
			})
		}
	}
	return fields, nil
}

func parsePredicates(dec *xml.Decoder) ([]PredicateDef, error) {
	var preds []PredicateDef
	for {
		tok, err := dec.Token()
		if err == io.EOF || isEnd(tok, "predicates") {
			break
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "predicate" {
			expr, err := parsePredicateExpr(dec)
			if err != nil {
				return nil, err
			}
			preds = append(preds, PredicateDef{ID: attrOr(start, "id", ""), Expr: expr})
		}
	}
	return preds, nil
}

// parsePredicateExpr reads the single expression element immediately
// inside a <predicate>, <when>, or <not> block, returning Always if the
// block closes with no recognized child, matching the original parser's
// fallback.
func parsePredicateExpr(dec *xml.Decoder) (PredicateExpr, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return PredicateExpr{Kind: ExprAlways}, nil
		}
		if err != nil {
			return PredicateExpr{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return predicateExprFromStart(dec, t)
		case xml.EndElement:
			if t.Name.Local == "predicate" {
				return PredicateExpr{Kind: ExprAlways}, nil
			}
		}
	}
}

// predicateExprFromStart dispatches a single already-opened element to
// its PredicateExpr variant, consuming any children the variant requires
// (and/or/not recurse; everything else is attribute-only).
func predicateExprFromStart(dec *xml.Decoder, start xml.StartElement) (PredicateExpr, error) {
	switch start.Name.Local {
	case "always":
		return PredicateExpr{Kind: ExprAlways}, nil
	case "fail":
		return PredicateExpr{Kind: ExprFail}, nil
	case "eq":
		return PredicateExpr{Kind: ExprEq, Left: attrOr(start, "left", ""), Right: ParseValue(attrOr(start, "right", ""))}, nil
	case "neq":
		return PredicateExpr{Kind: ExprNeq, Left: attrOr(start, "left", ""), Right: ParseValue(attrOr(start, "right", ""))}, nil
	case "gt":
		return PredicateExpr{Kind: ExprGt, Left: attrOr(start, "left", ""), Right: ParseValue(attrOr(start, "right", ""))}, nil
	case "gte":
		return PredicateExpr{Kind: ExprGte, Left: attrOr(start, "left", ""), Right: ParseValue(attrOr(start, "right", ""))}, nil
	case "lt":
		return PredicateExpr{Kind: ExprLt, Left: attrOr(start, "left", ""), Right: ParseValue(attrOr(start, "right", ""))}, nil
	case "lte":
		return PredicateExpr{Kind: ExprLte, Left: attrOr(start, "left", ""), Right: ParseValue(attrOr(start, "right", ""))}, nil
	case "contains":
		return PredicateExpr{Kind: ExprContains, Left: attrOr(start, "left", ""), ContainsRight: attrOr(start, "right", "")}, nil
	case "matches":
		return PredicateExpr{Kind: ExprMatches, Left: attrOr(start, "left", ""), Pattern: attrOr(start, "pattern", "")}, nil
	case "startsWith", "starts_with":
		return PredicateExpr{Kind: ExprStartsWith, Left: attrOr(start, "left", ""), Prefix: attrOr(start, "prefix", "")}, nil
	case "endsWith", "ends_with":
		return PredicateExpr{Kind: ExprEndsWith, Left: attrOr(start, "left", ""), Suffix: attrOr(start, "suffix", "")}, nil
	case "ref":
		return PredicateExpr{Kind: ExprRef, Predicate: attrOr(start, "predicate", "")}, nil
	case "fn":
		return PredicateExpr{Kind: ExprFn, FnName: attrOr(start, "name", ""), FnArg: attrOr(start, "arg", "")}, nil
	case "and":
		conds, err := parsePredicateList(dec, "and")
		if err != nil {
			return PredicateExpr{}, err
		}
		return PredicateExpr{Kind: ExprAnd, Conditions: conds}, nil
	case "or":
		conds, err := parsePredicateList(dec, "or")
		if err != nil {
			return PredicateExpr{}, err
		}
		return PredicateExpr{Kind: ExprOr, Conditions: conds}, nil
	case "not":
		inner, err := parsePredicateExpr(dec)
		if err != nil {
			return PredicateExpr{}, err
		}
		if err := skipToEnd(dec, "not"); err != nil {
			return PredicateExpr{}, err
		}
		return PredicateExpr{Kind: ExprNot, Condition: &inner}, nil
	default:
		return PredicateExpr{Kind: ExprAlways}, nil
	}
}

func parsePredicateList(dec *xml.Decoder, endTag string) ([]PredicateExpr, error) {
	var conditions []PredicateExpr
	for {
		tok, err := dec.Token()
		if err == io.EOF || isEnd(tok, endTag) {
			break
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			expr, err := predicateExprFromStart(dec, start)
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, expr)
		}
	}
	return conditions, nil
}

// skipToEnd consumes tokens until the matching close of tag, tracking
// nested opens of the same tag name so a <not><not>...</not></not>
// doesn't close early.
func skipToEnd(dec *xml.Decoder, tag string) error {
	depth := 1
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == tag {
				depth++
			}
		case xml.EndElement:
			if t.Name.Local == tag {
				depth--
				if depth == 0 {
					return nil
				}
			}
		}
	}
}

func isEnd(tok xml.Token, name string) bool {
	if tok == nil {
		return false
	}
	end, ok := tok.(xml.EndElement)
	return ok && end.Name.Local == name
}

func parseWorkflow(dec *xml.Decoder, start xml.StartElement) (Workflow, error) {
	wf := Workflow{ID: attrOr(start, "id", ""), Description: attrPtr(start, "description")}

	for {
		tok, err := dec.Token()
		if err == io.EOF || isEnd(tok, "workflow") {
			break
		}
		if err != nil {
			return Workflow{}, err
		}
		s, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch s.Name.Local {
		case "entry":
			wf.Entry = EntryPoint{P: attrOr(s, "p", ""), X: attrOr(s, "x", ""), Node: attrOr(s, "node", "")}
			// <entry> is always self-closing; encoding/xml still emits a
			// matching EndElement, which the outer loop will see next.
		case "nodes":
			nodes, err := parseNodes(dec)
			if err != nil {
				return Workflow{}, err
			}
			wf.Nodes = nodes
		case "edges":
			edges, err := parseEdges(dec)
			if err != nil {
				return Workflow{}, err
			}
			wf.Edges = edges
		}
	}

	return wf, nil
}

func parseNodes(dec *xml.Decoder) ([]Node, error) {
	var nodes []Node
	for {
		tok, err := dec.Token()
		if err == io.EOF || isEnd(tok, "nodes") {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "node" {
			continue
		}

		node := NewNode()
		node.ID = attrOr(start, "id", "")
		node.Kind = attrOr(start, "kind", "transform")
		node.Op = attrPtr(start, "op")
		node.Template = attrPtr(start, "template")
		if s, ok := attr(start, "status"); ok {
			if v, err := strconv.ParseUint(s, 10, 16); err == nil {
				v16 := uint16(v)
				node.Status = &v16
			}
		}
		node.Actor = attrPtr(start, "actor")
		node.Confirmation = attrPtr(start, "confirmation")
		node.Async = attrBool(start, "async")
		node.Cacheable = attrBool(start, "cacheable")

		if err := parseNodeChildren(dec, &node); err != nil {
			return nil, err
		}

		nodes = append(nodes, node)
	}
	return nodes, nil
}

func parseNodeChildren(dec *xml.Decoder, node *Node) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF || isEnd(tok, "node") {
			return nil
		}
		if err != nil {
			return err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "template":
			node.Template = attrPtr(start, "ref")
		case "schema":
			node.Schema = attrPtr(start, "ref")
		case "require":
			node.Predicate = attrPtr(start, "predicate")
		case "selector":
			text, err := readText(dec, "selector")
			if err != nil {
				return err
			}
			node.Selector = &text
		case "message":
			text, err := readText(dec, "message")
			if err != nil {
				return err
			}
			node.Message = &text
		case "set":
			signal, sok := attr(start, "signal")
			value, vok := attr(start, "value")
			if sok && vok {
				node.Signals = append(node.Signals, [2]string{signal, value})
			}
		}
	}
}

// readText collects character data up to the matching end tag. It is
// used for elements whose value is text content rather than attributes.
func readText(dec *xml.Decoder, tag string) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF || isEnd(tok, tag) {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
		if cd, ok := tok.(xml.CharData); ok {
			sb.Write(cd)
		}
	}
}

func parseEdges(dec *xml.Decoder) ([]Edge, error) {
	var edges []Edge
	for {
		tok, err := dec.Token()
		if err == io.EOF || isEnd(tok, "edges") {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "edge" {
			continue
		}

		edge := Edge{From: attrOr(start, "from", ""), To: attrOr(start, "to", "")}
		if w, ok := attr(start, "weight"); ok {
			if v, err := strconv.ParseUint(w, 10, 16); err == nil {
				v16 := uint16(v)
				edge.Weight = &v16
			}
		}
		edge.Parallel = attrBool(start, "parallel")
		edge.Fallback = attrBool(start, "fallback")

		if err := parseEdgeChildren(dec, &edge); err != nil {
			return nil, err
		}

		edges = append(edges, edge)
	}
	return edges, nil
}

func parseEdgeChildren(dec *xml.Decoder, edge *Edge) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF || isEnd(tok, "edge") {
			break
		}
		if err != nil {
			return err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "when" {
			continue
		}
		expr, err := parsePredicateExpr(dec)
		if err != nil {
			return err
		}
		if err := skipToEnd(dec, "when"); err != nil {
			return err
		}
		edge.Predicate = &expr
	}

	if edge.Predicate == nil {
		always := PredicateExpr{Kind: ExprAlways}
		edge.Predicate = &always
	}
	return nil
}

func parseTemplates(dec *xml.Decoder) ([]Template, error) {
	var templates []Template
	for {
		tok, err := dec.Token()
		if err == io.EOF || isEnd(tok, "templates") {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "template" {
			continue
		}

		id := attrOr(start, "id", "")
		content, err := readText(dec, "template")
		if err != nil {
			return nil, err
		}
		templates = append(templates, Template{ID: id, Content: content})
	}
	return templates, nil
}

func parseMergePolicies(dec *xml.Decoder, openTag string) ([]EntityMerge, error) {
	var policies []EntityMerge
	for {
		tok, err := dec.Token()
		if err == io.EOF || isEnd(tok, "merge") || isEnd(tok, "merge_policies") {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "entity" {
			continue
		}

		entity := attrOr(start, "name", "")
		defaultPolicy := ParseMergePolicyName(attrOr(start, "default", "lww"))
		pre := attrPtr(start, "pre")
		post := attrPtr(start, "post")

		fields, err := parseFieldMerges(dec)
		if err != nil {
			return nil, err
		}

		policies = append(policies, EntityMerge{
			Entity:        entity,
			DefaultPolicy: defaultPolicy,
			Fields:        fields,
			PreCondition:  pre,
			PostValidate:  post,
		})
	}
	_ = openTag
	return policies, nil
}

func parseFieldMerges(dec *xml.Decoder) ([]FieldMerge, error) {
	var fields []FieldMerge
	for {
		tok, err := dec.Token()
		if err == io.EOF || isEnd(tok, "entity") {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "field" {
			continue
		}

		field := attrOr(start, "name", "")
		policyStr := attrOr(start, "policy", "lww")
		policy := ParseMergePolicyName(policyStr)
		validate := attrPtr(start, "validate")

		var final MergePolicy
		switch {
		case strings.HasPrefix(policyStr, "predicate:"):
			final = MergePolicy{Kind: PolicyCustom, Predicate: strings.TrimPrefix(policyStr, "predicate:")}
		default:
			if actor, ok := attr(start, "prefer_origin"); ok {
				final = MergePolicy{Kind: PolicyPreferOrigin, Actor: actor}
			} else {
				final = policy
			}
		}

		fields = append(fields, FieldMerge{Field: field, Policy: final, Validate: validate})
	}
	return fields, nil
}
