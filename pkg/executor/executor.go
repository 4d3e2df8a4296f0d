package executor

import (
	"github.com/flowforge/engine/pkg/config"
	"github.com/flowforge/engine/pkg/graph"
	"github.com/flowforge/engine/pkg/types"
)

// ExecutionContext gives an executor access to engine-level state without
// creating an import cycle between pkg/executor and pkg/engine: the engine
// implements this interface and passes itself to Registry.Execute.
type ExecutionContext interface {
	// Config returns the engine's configuration (timeouts, safe
	// directories, allow-lists).
	Config() *config.Config

	// Graph returns the workflow's graph, used by the foreach executor to
	// discover its loop body.
	Graph() *graph.Graph

	// RunSubWorkflow executes nodeIDs in declaration order against seed,
	// honouring skipDuringExecution and sticky-key metadata preservation.
	// Used by the foreach executor to run one iteration's body. Returns the
	// final output (the seed if nodeIDs is empty), the per-node outcomes
	// recorded along the way, and the first node error encountered.
	RunSubWorkflow(nodeIDs []string, seed interface{}) (interface{}, []types.NodeTrace, error)
}

// NodeExecutor is the strategy interface implemented by every node type.
type NodeExecutor interface {
	// NodeType returns the node type this executor handles.
	NodeType() types.NodeType

	// Execute runs node with the given resolved input and returns a
	// uniform outcome. Implementations must not mutate input.
	Execute(ctx ExecutionContext, node types.Node, input interface{}) types.NodeOutcome
}
