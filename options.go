package pxyzc

import (
	"github.com/omarflow/pxyzc/audit"
	"github.com/omarflow/pxyzc/diag"
)

// CompileOptions controls which optional phases Compile runs.
type CompileOptions struct {
	// Optimize runs the dead-node/dedup-predicate/edge-order passes
	// before analysis.
	Optimize bool
	// Strict treats any Warn-severity diagnostic as a compile failure,
	// in addition to Error-severity ones.
	Strict bool
	// EmitAudit builds a human-readable GraphAudit alongside the binary.
	EmitAudit bool
}

// CompileResult is the output of a successful Compile call.
type CompileResult struct {
	Binary      []byte
	Audit       *audit.GraphAudit
	Diagnostics []diag.Diagnostic
}

// GraphInfo is the header summary returned by Inspect.
type GraphInfo struct {
	VersionMajor   uint16
	VersionMinor   uint16
	NodeCount      uint32
	EdgeCount      uint32
	PredicateCount uint32
	StringPoolSize uint32
	EntryCount     uint32
	BinarySize     int
}
