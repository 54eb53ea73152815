// Package pxyzc compiles XML workflow definitions into the compact binary
// graph format executed by a downstream bytecode host: workflow.xml →
// parse → lower → predicate bytecode → optional optimization → static
// analysis → graph.bin.
package pxyzc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/omarflow/pxyzc/artifact"
	"github.com/omarflow/pxyzc/audit"
	"github.com/omarflow/pxyzc/bytecode"
	"github.com/omarflow/pxyzc/check"
	"github.com/omarflow/pxyzc/diag"
	"github.com/omarflow/pxyzc/dsl"
	"github.com/omarflow/pxyzc/emit"
	"github.com/omarflow/pxyzc/ir"
	"github.com/omarflow/pxyzc/lower"
	"github.com/omarflow/pxyzc/optimize"
	"github.com/omarflow/pxyzc/schema"
)

// Compiler drives the full XML-to-binary pipeline. Its zero value is
// usable: a nil Emitter discards events, and a nil Metrics disables
// instrumentation.
type Compiler struct {
	emitter emit.Emitter
	metrics *Metrics
}

// New returns a Compiler. Either argument may be nil.
func New(emitter emit.Emitter, metrics *Metrics) *Compiler {
	if emitter == nil {
		emitter = emit.NewNullEmitter()
	}
	return &Compiler{emitter: emitter, metrics: metrics}
}

func (c *Compiler) emit(compileID, phase, nodeID, msg string, meta map[string]interface{}) {
	c.emitter.Emit(emit.Event{CompileID: compileID, Phase: phase, NodeID: nodeID, Msg: msg, Meta: meta})
}

func tierOf(code string) string {
	switch {
	case len(code) >= 3 && code[:3] == "SYN":
		return "syntactic"
	case len(code) >= 3 && code[:3] == "SEM":
		return "semantic"
	case len(code) >= 4 && code[:4] == "PRAG":
		return "pragmatic"
	case len(code) >= 6 && code[:6] == "SCHEMA":
		return "schema"
	default:
		return "unknown"
	}
}

func (c *Compiler) countDiagnostics(diags []diag.Diagnostic) {
	for _, d := range diags {
		c.metrics.countDiagnostic(tierOf(d.Code), d.Severity.String())
	}
}

// Compile runs the full pipeline: parse, lower, compile predicates,
// optionally optimize, always analyze, and — only when analysis found no
// blocking diagnostics — emit the binary artifact and, if requested, a
// human-readable audit.
func (c *Compiler) Compile(xmlSource string, options CompileOptions) (*CompileResult, error) {
	compileID := uuid.NewString()
	start := time.Now()

	doc, err := dsl.Parse(xmlSource)
	if err != nil {
		c.emit(compileID, "parse", "", "parse failed", map[string]interface{}{"error": err.Error()})
		c.metrics.observeCompile("parse_error", time.Since(start).Seconds())
		return nil, &diag.ParseError{Message: err.Error(), Cause: err}
	}
	c.emit(compileID, "parse", "", "parsed document", map[string]interface{}{
		"workflows": len(doc.Workflows), "schemas": len(doc.Schemas),
	})

	graph, pending, err := lower.Lower(doc)
	if err != nil {
		c.emit(compileID, "lower", "", "lower failed", map[string]interface{}{"error": err.Error()})
		c.metrics.observeCompile("lower_error", time.Since(start).Seconds())
		return nil, &diag.LowerError{Message: err.Error(), Cause: err}
	}
	c.emit(compileID, "lower", "", "lowered graph", map[string]interface{}{
		"nodes": len(graph.Nodes), "edges": len(graph.Edges),
	})

	if err := bytecode.CompileAll(graph, pending); err != nil {
		c.emit(compileID, "bytecode", "", "predicate compilation failed", map[string]interface{}{"error": err.Error()})
		c.metrics.observeCompile("predicate_error", time.Since(start).Seconds())
		return nil, &diag.PredicateError{Message: err.Error()}
	}
	c.emit(compileID, "bytecode", "", "compiled predicates", map[string]interface{}{
		"predicates": len(graph.Predicates),
	})

	var optStats optimize.Stats
	if options.Optimize {
		optStats = optimize.Run(graph)
		c.emit(compileID, "optimize", "", "optimized graph", map[string]interface{}{
			"nodes_removed": optStats.NodesRemoved, "edges_removed": optStats.EdgesRemoved,
			"predicates_removed": optStats.PredicatesRemoved,
		})
		c.metrics.observeOptimize(optStats)
	}

	diagnostics := c.analyze(compileID, doc, graph)
	c.countDiagnostics(diagnostics)

	hasErrors := diag.HasErrors(diagnostics)
	hasWarnings := diag.CountWarnings(diagnostics) > 0
	if hasErrors || (options.Strict && hasWarnings) {
		c.metrics.observeCompile("validation_failed", time.Since(start).Seconds())
		return nil, &diag.ValidationError{Diagnostics: diagnostics}
	}

	binary, err := artifact.Emit(graph, []byte(xmlSource))
	if err != nil {
		c.emit(compileID, "emit", "", "emit failed", map[string]interface{}{"error": err.Error()})
		c.metrics.observeCompile("emit_error", time.Since(start).Seconds())
		return nil, &diag.EmitError{Message: err.Error(), Cause: err}
	}
	c.emit(compileID, "emit", "", "emitted binary", map[string]interface{}{"bytes": len(binary)})
	c.metrics.observeArtifactSize(len(binary))

	result := &CompileResult{Binary: binary, Diagnostics: diagnostics}
	if options.EmitAudit {
		built := audit.Build(graph, diagnostics, optStats)
		result.Audit = &built
		c.emit(compileID, "audit", "", "built audit report", nil)
	}

	c.metrics.observeCompile("success", time.Since(start).Seconds())
	return result, nil
}

// analyze runs schema validation and the three check tiers, in that
// fixed order, never short-circuiting on earlier findings.
func (c *Compiler) analyze(compileID string, doc *dsl.Document, graph *ir.Graph) []diag.Diagnostic {
	var diagnostics []diag.Diagnostic
	diagnostics = append(diagnostics, schema.Validate(doc.Schemas)...)
	diagnostics = append(diagnostics, check.Syntactic(graph)...)
	diagnostics = append(diagnostics, check.Semantic(graph)...)
	diagnostics = append(diagnostics, check.Pragmatic(graph)...)
	c.emit(compileID, "pragmatic", "", "analysis complete", map[string]interface{}{
		"diagnostics": len(diagnostics),
		"errors":      diag.CountErrors(diagnostics),
		"warnings":    diag.CountWarnings(diagnostics),
	})
	return diagnostics
}

// Validate runs parse, lower, and analysis only — it never compiles
// predicates, optimizes, or emits a binary. Parse and lower failures are
// reported as single synthetic diagnostics rather than returned errors,
// matching how downstream tooling expects a diagnostic list back no
// matter how early compilation stopped.
func (c *Compiler) Validate(xmlSource string) []diag.Diagnostic {
	compileID := uuid.NewString()

	doc, err := dsl.Parse(xmlSource)
	if err != nil {
		c.emit(compileID, "parse", "", "parse failed", map[string]interface{}{"error": err.Error()})
		return []diag.Diagnostic{{
			Severity: diag.Error,
			Code:     "PARSE",
			Message:  err.Error(),
		}}
	}

	graph, _, err := lower.Lower(doc)
	if err != nil {
		c.emit(compileID, "lower", "", "lower failed", map[string]interface{}{"error": err.Error()})
		return []diag.Diagnostic{{
			Severity: diag.Error,
			Code:     "LOWER",
			Message:  err.Error(),
		}}
	}

	return c.analyze(compileID, doc, graph)
}

// Inspect parses a compiled binary's header without running the
// compiler, returning a summary safe to log or display.
func (c *Compiler) Inspect(data []byte) (GraphInfo, error) {
	h, err := artifact.Inspect(data)
	if err != nil {
		return GraphInfo{}, err
	}
	return GraphInfo{
		VersionMajor:   h.VersionMajor,
		VersionMinor:   h.VersionMinor,
		NodeCount:      h.NodeCount,
		EdgeCount:      h.EdgeCount,
		PredicateCount: h.PredicateCount,
		StringPoolSize: h.StringPoolSize,
		EntryCount:     h.EntryCount,
		BinarySize:     len(data),
	}, nil
}

// Flush forces any buffered emitter output (e.g. an OpenTelemetry
// exporter) to drain before the process exits.
func (c *Compiler) Flush(ctx context.Context) error {
	return c.emitter.Flush(ctx)
}
