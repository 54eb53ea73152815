package emit

// Event represents an observability event emitted during one Compile or
// Validate call.
type Event struct {
	// CompileID identifies the top-level call that produced this event,
	// generated once per call with github.com/google/uuid.
	CompileID string

	// Phase names the pipeline stage that emitted this event: "parse",
	// "lower", "bytecode", "optimize", "pragmatic", "emit", or "audit".
	// The whole analysis (schema and all three check tiers) reports as a
	// single "pragmatic" event.
	Phase string

	// NodeID identifies which graph node the event concerns, when the
	// event has one (e.g. a diagnostic with a node location). Empty for
	// phase-level events.
	NodeID string

	// Msg is a human-readable description of the event.
	Msg string

	// Meta carries structured data specific to the event. Keys used by the
	// compiler: "error", "workflows", "schemas", "nodes", "edges",
	// "predicates", "nodes_removed", "edges_removed", "predicates_removed",
	// "diagnostics", "errors", "warnings", "bytes".
	Meta map[string]interface{}
}
