// Package emit provides event emission and observability for compile
// pipeline runs.
package emit

import "context"

// Emitter receives observability events from a compile pipeline run.
//
// Implementations should be non-blocking and thread-safe — events may be
// emitted concurrently once the optimizer or analyzer tiers parallelize
// their work — and resilient: a failing backend must never abort a
// compile.
type Emitter interface {
	// Emit sends a single event to the configured backend. Emit should
	// not panic; backend failures should be logged internally instead.
	Emit(event Event)

	// EmitBatch sends multiple events in one operation, preserving order.
	// Returns an error only on catastrophic failures such as
	// misconfiguration, never on a single event's delivery failure.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush blocks until every buffered event has been sent, or the
	// context expires. Safe to call more than once.
	Flush(ctx context.Context) error
}
