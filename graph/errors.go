package graph

import "errors"

// Sentinel causes wrapped by EngineError.Cause for the two invariant
// violations that the manager treats as programmer error rather than a
// recoverable condition: both indicate the StepsQueue/QueueDelegate
// bookkeeping has been driven out of the states it is built to guarantee.
var (
	ErrEmptyBatchDequeued     = errors.New("graph: dequeued from an empty step batch")
	ErrDuplicateMemorisedNode = errors.New("graph: parent node id is already present in the memorised-nodes map")
)

// EngineError is the structured error the package panics with when one of
// its internal invariants is violated. Code is a short,
// stable, machine-matchable tag; Message is human-readable detail; Cause
// chains to a sentinel or wrapped error when one applies.
type EngineError struct {
	Message string
	Code    string
	Cause   error
}

func (e *EngineError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

func (e *EngineError) Unwrap() error { return e.Cause }
