package executor

import (
	"fmt"
	"sync"
	"time"

	"github.com/flowforge/engine/pkg/types"
)

// Registry maps node types to their executor and dispatches execution.
type Registry struct {
	mu        sync.RWMutex
	executors map[types.NodeType]NodeExecutor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{executors: make(map[types.NodeType]NodeExecutor)}
}

// Register adds exec under its NodeType, overwriting any previous
// registration for that type.
func (r *Registry) Register(exec NodeExecutor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[exec.NodeType()] = exec
}

// GetExecutor returns the executor registered for nodeType, or nil.
func (r *Registry) GetExecutor(nodeType types.NodeType) NodeExecutor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.executors[nodeType]
}

// Execute dispatches to the executor registered for node.Type, timing the
// call and producing an error outcome for an unregistered type.
func (r *Registry) Execute(ctx ExecutionContext, node types.Node, input interface{}) types.NodeOutcome {
	exec := r.GetExecutor(node.Type)
	if exec == nil {
		return types.Failure(fmt.Errorf("%w: %s", ErrUnknownNodeType, node.Type), "", 0)
	}

	start := time.Now()
	outcome := exec.Execute(ctx, node, input)
	if outcome.ExecutionTime == 0 {
		outcome.ExecutionTime = time.Since(start).Seconds()
	}
	return outcome
}

// Validate reports whether node.Type has a registered executor. It lets a
// validation middleware reject an unknown node type before the rest of the
// chain spends time on it.
func (r *Registry) Validate(node types.Node) error {
	if r.GetExecutor(node.Type) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNodeType, node.Type)
	}
	return nil
}

// NewDefaultRegistry builds a Registry with every built-in node executor
// registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&StartExecutor{})
	r.Register(&EndExecutor{})
	r.Register(&PythonExecutor{})
	r.Register(&TypeScriptExecutor{})
	r.Register(&HTTPExecutor{})
	r.Register(&FileExecutor{})
	r.Register(&ConditionExecutor{})
	r.Register(&DatabaseExecutor{})
	r.Register(&LLMExecutor{})
	r.Register(&EmbeddingExecutor{})
	r.Register(&ForEachExecutor{})
	r.Register(&EndLoopExecutor{})
	r.Register(&MarkdownExecutor{})
	r.Register(&HTMLExecutor{})
	r.Register(&JSONExecutor{})
	return r
}
