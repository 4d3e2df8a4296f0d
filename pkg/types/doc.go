// Package types provides shared type definitions for the workflow execution
// engine.
//
// This package contains the core data structures passed between the graph,
// state, executor and engine packages: the workflow request shape (Node,
// Connection, Workflow), the runtime Value model, and the uniform NodeOutcome
// every executor produces. It has no dependency on any other engine package,
// which keeps it safe to import from anywhere without creating import
// cycles.
package types
