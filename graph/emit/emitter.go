package emit

import "context"

// Emitter receives Events produced from a run's Logger hooks. Implementations
// should be non-blocking and should not panic: a misbehaving observability
// backend must never be allowed to take down a traversal.
type Emitter interface {
	// Emit sends a single event. Implementations should not block; buffer
	// or drop rather than stall the caller.
	Emit(event Event)

	// EmitBatch sends several events at once, preserving order. Returns an
	// error only for catastrophic, configuration-level failures.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush blocks until any buffered events have been delivered, or the
	// context is done. Safe to call more than once.
	Flush(ctx context.Context) error
}
