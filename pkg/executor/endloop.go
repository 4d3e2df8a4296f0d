package executor

import "github.com/flowforge/engine/pkg/types"

// EndLoopExecutor reshapes a mapping input (the foreach coordinator's
// aggregated structure) into the loop's final result, keeping only
// results, aggregated_outputs, items, total, successful and failed. A
// non-mapping input is passed through unchanged. Inside an iteration's body
// the endloop node is not run through this executor: the sub-workflow
// runner passes its input through.
type EndLoopExecutor struct{}

func (e *EndLoopExecutor) NodeType() types.NodeType { return types.NodeTypeEndLoop }

func (e *EndLoopExecutor) Execute(_ ExecutionContext, _ types.Node, input interface{}) types.NodeOutcome {
	m, ok := types.AsMap(input)
	if !ok {
		return types.Success(input, 0)
	}
	return types.Success(map[string]interface{}{
		"results":            m["results"],
		"aggregated_outputs": m["aggregated_outputs"],
		"items":              m["items"],
		"total":              m["total"],
		"successful":         m["successful"],
		"failed":             m["failed"],
	}, 0)
}
