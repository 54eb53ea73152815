// Package schema structurally validates the <schema> declarations found
// in a parsed document: field names are unique, every field's type is
// one of the known primitive types, and declared patterns compile as
// regular expressions. This validates the schema declaration itself,
// never a runtime payload against it — this compiler has no runtime to
// validate payloads for.
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/xeipuuv/gojsonschema"

	"github.com/omarflow/pxyzc/diag"
	"github.com/omarflow/pxyzc/dsl"
)

// knownTypes is the closed set of primitive field types this DSL
// recognizes.
var knownTypes = map[string]bool{
	"string": true, "int": true, "float": true, "bool": true,
	"list": true, "map": true, "timestamp": true,
}

// shapeSchema is the JSON-schema shape every <schema> declaration must
// conform to before the field-level checks below run.
const shapeSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"fields": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"type": {"type": "string"},
					"required": {"type": "boolean"}
				},
				"required": ["name", "type"]
			}
		}
	},
	"required": ["name", "fields"]
}`

var shapeLoader = gojsonschema.NewStringLoader(shapeSchema)

// Validate checks every declared schema, returning one diagnostic per
// violation. Location carries the WorkflowID field repurposed to hold the
// schema name, since diag.Location has no dedicated schema slot.
func Validate(schemas []dsl.Schema) []diag.Diagnostic {
	var out []diag.Diagnostic

	for _, s := range schemas {
		loc := diag.Location{WorkflowID: s.Name}

		if violations, err := validateShape(s); err != nil {
			out = append(out, diag.Diagnostic{
				Severity: diag.Error, Code: "SCHEMA001",
				Message:  fmt.Sprintf("schema %q: %v", s.Name, err),
				Location: loc,
			})
		} else {
			for _, v := range violations {
				out = append(out, diag.Diagnostic{
					Severity: diag.Error, Code: "SCHEMA001",
					Message:  fmt.Sprintf("schema %q: %s", s.Name, v),
					Location: loc,
				})
			}
		}

		seen := make(map[string]bool, len(s.Fields))
		for _, f := range s.Fields {
			if seen[f.Name] {
				out = append(out, diag.Diagnostic{
					Severity: diag.Error, Code: "SCHEMA002",
					Message:  fmt.Sprintf("schema %q: duplicate field %q", s.Name, f.Name),
					Location: loc,
				})
			}
			seen[f.Name] = true

			if !knownTypes[f.Type] {
				out = append(out, diag.Diagnostic{
					Severity: diag.Error, Code: "SCHEMA003",
					Message:  fmt.Sprintf("schema %q: field %q has unknown type %q", s.Name, f.Name, f.Type),
					Location: loc,
				})
			}

			if f.Pattern != nil {
				if _, err := regexp.Compile(*f.Pattern); err != nil {
					out = append(out, diag.Diagnostic{
						Severity: diag.Error, Code: "SCHEMA004",
						Message:  fmt.Sprintf("schema %q: field %q has invalid pattern: %v", s.Name, f.Name, err),
						Location: loc,
					})
				}
			}
		}
	}

	return out
}

func validateShape(s dsl.Schema) ([]string, error) {
	data, err := json.Marshal(toShapeDoc(s))
	if err != nil {
		return nil, err
	}
	result, err := gojsonschema.Validate(shapeLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, e.String())
	}
	return violations, nil
}

func toShapeDoc(s dsl.Schema) map[string]interface{} {
	fields := make([]map[string]interface{}, 0, len(s.Fields))
	for _, f := range s.Fields {
		fields = append(fields, map[string]interface{}{
			"name":     f.Name,
			"type":     f.Type,
			"required": f.Required,
		})
	}
	return map[string]interface{}{"name": s.Name, "fields": fields}
}
