// Package diag defines the diagnostic and error vocabulary shared by every
// compiler phase: severities, locations, diagnostics, and the typed errors
// each phase raises when it must abort.
package diag

import "fmt"

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	// Info is an informational diagnostic that never affects compile success.
	Info Severity = iota
	// Warn is a diagnostic that fails compilation only under strict mode.
	Warn
	// Error is a diagnostic that always fails compilation.
	Error
)

// String renders the severity the way diagnostics are printed in audit
// output and test failure messages.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Location pinpoints where a diagnostic originated. Every field is optional;
// a zero Location means the diagnostic is graph-wide.
type Location struct {
	WorkflowID string
	NodeID     string
	EdgeID     string
	PredicateID string
}

// IsZero reports whether the location carries no information at all.
func (l Location) IsZero() bool {
	return l.WorkflowID == "" && l.NodeID == "" && l.EdgeID == "" && l.PredicateID == ""
}

// Diagnostic is a single finding produced by one of the three analyzer
// tiers. Hint and Location are optional; Location is the zero value when
// absent.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Hint     string
	Location Location
}

// HasHint reports whether a human-readable remediation hint was attached.
func (d Diagnostic) HasHint() bool {
	return d.Hint != ""
}

// String renders a diagnostic in the compact single-line form used by the
// audit report and CLI-adjacent tooling outside this module.
func (d Diagnostic) String() string {
	if d.Hint != "" {
		return fmt.Sprintf("[%s] %s: %s (hint: %s)", d.Severity, d.Code, d.Message, d.Hint)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
}

// CountErrors returns how many diagnostics in the slice are Error severity.
func CountErrors(diags []Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == Error {
			n++
		}
	}
	return n
}

// CountWarnings returns how many diagnostics in the slice are Warn severity.
func CountWarnings(diags []Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == Warn {
			n++
		}
	}
	return n
}

// HasErrors reports whether any diagnostic in the slice is Error severity.
func HasErrors(diags []Diagnostic) bool {
	return CountErrors(diags) > 0
}
