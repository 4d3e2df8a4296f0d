// Package engine drives a single workflow to completion: it orders nodes
// with Kahn's algorithm, masks foreach-body nodes from the top-level sweep,
// resolves each node's single input from its recorded predecessors, and
// dispatches execution through the shared executor registry.
//
// # Overview
//
// Run takes a types.Workflow and returns a types.RunResponse carrying the
// per-node trace, the overall status, and the elapsed wall-clock time.
//
// # Foreach handling
//
// The scheduler itself never iterates a loop body — that lives in
// pkg/executor's ForEachExecutor, which calls back into the Scheduler's
// RunSubWorkflow implementation (the Scheduler is the executor.ExecutionContext
// the registry is invoked with). When a foreach outcome carries an
// EndLoopNodeID, the scheduler immediately runs EndLoop against the
// aggregation and records its output before continuing the top-level sweep,
// so the later top-level arrival at that endloop id is a no-op reuse.
//
// # Failure policy
//
// Execution halts at the first error-status outcome. Nodes already run stay
// in the trace; the response status becomes "error" and names the failing
// node.
package engine
