// Package executor implements the per-node-type execution strategies for
// the workflow engine: one NodeExecutor per node type, dispatched through a
// Registry keyed by types.NodeType.
//
// Each executor is a function of (node config, runtime input) that
// produces a types.NodeOutcome; it never panics or returns a bare error —
// failures are converted to an error-status outcome so the scheduler can
// record a uniform trace.
package executor
