package executor

import "github.com/flowforge/engine/pkg/types"

// StartExecutor marks the beginning of a workflow. It ignores its input and
// always emits the same greeting message.
type StartExecutor struct{}

func (e *StartExecutor) NodeType() types.NodeType { return types.NodeTypeStart }

func (e *StartExecutor) Execute(_ ExecutionContext, _ types.Node, _ interface{}) types.NodeOutcome {
	return types.Success(map[string]interface{}{"message": "Workflow started"}, 0)
}

// EndExecutor marks the end of a workflow (or of a sub-workflow body) and
// passes its input through unchanged.
type EndExecutor struct{}

func (e *EndExecutor) NodeType() types.NodeType { return types.NodeTypeEnd }

func (e *EndExecutor) Execute(_ ExecutionContext, _ types.Node, input interface{}) types.NodeOutcome {
	return types.Success(input, 0)
}
