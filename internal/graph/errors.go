package graph

import "errors"

// Error kinds surfaced by the engine. Callers match them with errors.Is;
// the wrapped messages carry the node and port detail.
var (
	// ErrStructural rejects an invalid mutation: unknown port index,
	// duplicate connection, or a connection that would create a cycle in
	// the value graph. The graph is left unchanged.
	ErrStructural = errors.New("structural violation")

	// ErrNodeNotFound reports an operation referencing an id that is not
	// in the node set.
	ErrNodeNotFound = errors.New("node not found")

	// ErrCycle reports a cycle found during topological ordering. The
	// connect-time check makes this unreachable; it is detected
	// defensively because it indicates an earlier invariant violation.
	ErrCycle = errors.New("cycle detected in value graph")

	// ErrTriggerOverflow reports a trigger cascade that exceeded the
	// depth limit.
	ErrTriggerOverflow = errors.New("trigger cascade depth limit exceeded")

	// ErrStaleCompile rejects execution of a compiled graph after the
	// source graph changed structurally.
	ErrStaleCompile = errors.New("compiled graph is stale")
)
