// Package graph provides graph algorithms for workflow execution:
// topological ordering via Kahn's algorithm, connection lookups, and
// foreach-body discovery via breadth-first search.
//
// # Cycle handling
//
// TopologicalSort never errors on a cycle. Nodes that Kahn's algorithm
// cannot resolve to zero in-degree are appended to the order in their
// original declaration order, so the scheduler can still make progress on
// the acyclic part of a workflow.
package graph
