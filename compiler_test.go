package pxyzc

import (
	"errors"
	"testing"

	"github.com/omarflow/pxyzc/artifact"
	"github.com/omarflow/pxyzc/diag"
	"github.com/omarflow/pxyzc/emit"
)

const minimalValidDocument = `<?xml version="1.0"?>
<omar version="1.0.0">
  <workflow id="simple" description="a clean two-node flow">
    <entry p="order" x="submit" node="validate"/>
    <nodes>
      <node id="validate" kind="transform" op="1"/>
      <node id="done" kind="terminal"/>
    </nodes>
    <edges>
      <edge from="validate" to="done"/>
    </edges>
  </workflow>
</omar>`

const unparsableDocument = `<omar version="1.0.0"><workflow`

func TestCompile_ValidDocument(t *testing.T) {
	c := New(nil, nil)

	result, err := c.Compile(minimalValidDocument, CompileOptions{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(result.Binary) == 0 {
		t.Fatal("expected a non-empty binary")
	}
	if diag.HasErrors(result.Diagnostics) {
		t.Fatalf("expected no error diagnostics, got %+v", result.Diagnostics)
	}

	h, err := artifact.Inspect(result.Binary)
	if err != nil {
		t.Fatalf("Inspect of emitted binary: %v", err)
	}
	if h.NodeCount != 2 {
		t.Errorf("NodeCount = %d, want 2", h.NodeCount)
	}
	if h.EdgeCount != 1 {
		t.Errorf("EdgeCount = %d, want 1", h.EdgeCount)
	}
}

func TestCompile_EmitsAuditWhenRequested(t *testing.T) {
	c := New(nil, nil)

	result, err := c.Compile(minimalValidDocument, CompileOptions{EmitAudit: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if result.Audit == nil {
		t.Fatal("expected a non-nil audit report")
	}
	if result.Audit.NodeKindCounts["transform"] != 1 {
		t.Errorf("expected 1 transform node in audit, got %+v", result.Audit.NodeKindCounts)
	}
}

func TestCompile_ParseFailureReturnsParseError(t *testing.T) {
	c := New(nil, nil)

	_, err := c.Compile(unparsableDocument, CompileOptions{})
	if err == nil {
		t.Fatal("expected an error")
	}
	var parseErr *diag.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *diag.ParseError, got %T: %v", err, err)
	}
}

func TestCompile_ValidationFailureReturnsValidationError(t *testing.T) {
	// No workflow at all means the lowered graph has zero entry points,
	// which SYN005 always flags as an error.
	const brokenDocument = `<?xml version="1.0"?>
<omar version="1.0.0">
</omar>`

	c := New(nil, nil)
	_, err := c.Compile(brokenDocument, CompileOptions{})
	if err == nil {
		t.Fatal("expected an error")
	}
	var valErr *diag.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *diag.ValidationError, got %T: %v", err, err)
	}
	if diag.CountErrors(valErr.Diagnostics) == 0 {
		t.Error("expected at least one error diagnostic")
	}
}

func TestValidate_ReturnsDiagnosticsWithoutCompiling(t *testing.T) {
	c := New(nil, nil)

	diags := c.Validate(minimalValidDocument)
	if diag.HasErrors(diags) {
		t.Fatalf("expected no error diagnostics, got %+v", diags)
	}
}

func TestValidate_ParseFailureYieldsSinglePARSEDiagnostic(t *testing.T) {
	c := New(nil, nil)

	diags := c.Validate(unparsableDocument)
	if len(diags) != 1 || diags[0].Code != "PARSE" {
		t.Fatalf("expected a single PARSE diagnostic, got %+v", diags)
	}
}

func TestInspect_WrapsRealEmittedBinary(t *testing.T) {
	c := New(nil, nil)
	result, err := c.Compile(minimalValidDocument, CompileOptions{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	info, err := c.Inspect(result.Binary)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.BinarySize != len(result.Binary) {
		t.Errorf("BinarySize = %d, want %d", info.BinarySize, len(result.Binary))
	}
	if info.NodeCount != 2 {
		t.Errorf("NodeCount = %d, want 2", info.NodeCount)
	}
}

func TestNew_DefaultsNilEmitter(t *testing.T) {
	c := New(nil, nil)
	if c.emitter == nil {
		t.Fatal("expected New to default a nil emitter to NullEmitter")
	}
}

func TestCompile_WithBufferedEmitterSucceeds(t *testing.T) {
	buf := emit.NewBufferedEmitter()
	c := New(buf, nil)

	if _, err := c.Compile(minimalValidDocument, CompileOptions{}); err != nil {
		t.Fatalf("Compile with a real emitter wired in: %v", err)
	}
}
