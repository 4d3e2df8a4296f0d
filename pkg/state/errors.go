package state

import "errors"

// Sentinel errors for process-wide cache operations.
var (
	ErrEmptyModelName = errors.New("embedding model name must not be empty")

	// ErrVectorExtensionUnavailable's text is the Message of the *PolicyError
	// returned by LoadVectorExtension (the sentinel itself is not returned, so
	// errors.Is does not match it): the embedded modernc.org/sqlite driver is
	// pure Go and cannot dlopen a native vector-search extension, so any
	// workflow that asks for one gets a structured policy error instead of a
	// silent no-op.
	ErrVectorExtensionUnavailable = errors.New("vector-search sqlite extension is unavailable: the embedded driver cannot load native extensions")
)
