package reduce

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrWorkerFailure      = errors.New("worker failure")
)

// InvalidWorkerCountError is returned when a reduction is asked to run with
// fewer than one worker.
type InvalidWorkerCountError struct {
	Count int
}

func (e InvalidWorkerCountError) Error() string {
	return fmt.Sprintf("invalid worker count %d: must be >= 1", e.Count)
}

// Is reports ErrInvalidWorkerCount as a match.
func (e InvalidWorkerCountError) Is(target error) bool {
	return target == ErrInvalidWorkerCount
}

// WorkerFailureError reports a fault inside one worker's summation loop.
// A reduction that produced one never returns a total.
type WorkerFailureError struct {
	// Worker is the ordinal of the failed worker.
	Worker int
	// Range is the index range the worker was assigned.
	Range Range
	// Cause is the recovered panic value converted to an error.
	Cause error
}

func (e *WorkerFailureError) Error() string {
	return fmt.Sprintf("worker %d failed on range %s: %v", e.Worker, e.Range, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *WorkerFailureError) Unwrap() error { return e.Cause }

// Is reports ErrWorkerFailure as a match.
func (e *WorkerFailureError) Is(target error) bool {
	return target == ErrWorkerFailure
}

// newWorkerFailure converts a recovered panic value into a WorkerFailureError.
func newWorkerFailure(worker int, r Range, p any) *WorkerFailureError {
	cause, ok := p.(error)
	if !ok {
		cause = fmt.Errorf("%v", p)
	}
	return &WorkerFailureError{Worker: worker, Range: r, Cause: cause}
}
