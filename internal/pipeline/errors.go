package pipeline

import "errors"

var (
	// ErrConflict is an identity collision the idempotent insert did not
	// absorb. Treated as a logic-error signal, terminal per record.
	ErrConflict = errors.New("conflict")
	// ErrInvalidData is a record the store rejected on its merits
	// (constraint or encoding violation). Terminal per record: retrying
	// the same bytes can never succeed.
	ErrInvalidData = errors.New("store rejected record data")
	// ErrTransient is a retryable store failure (connectivity, timeout,
	// serialization). The only error kind that fails a whole invocation.
	ErrTransient = errors.New("transient persistence failure")
)
