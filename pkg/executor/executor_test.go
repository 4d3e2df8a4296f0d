package executor

import (
	"github.com/flowforge/engine/pkg/config"
	"github.com/flowforge/engine/pkg/graph"
	"github.com/flowforge/engine/pkg/types"
)

// testExecutionContext is a minimal ExecutionContext stand-in for executor
// unit tests: it never runs a real sub-workflow, since no test here depends
// on the engine's scheduling behavior, only on how an executor uses the
// config/graph it's given.
type testExecutionContext struct {
	cfg   *config.Config
	graph *graph.Graph
	run   func(nodeIDs []string, seed interface{}) (interface{}, []types.NodeTrace, error)
}

func newTestContext(cfg *config.Config) *testExecutionContext {
	if cfg == nil {
		cfg = config.Testing()
	}
	return &testExecutionContext{cfg: cfg, graph: graph.New(nil, nil)}
}

func (c *testExecutionContext) Config() *config.Config { return c.cfg }
func (c *testExecutionContext) Graph() *graph.Graph     { return c.graph }
func (c *testExecutionContext) RunSubWorkflow(nodeIDs []string, seed interface{}) (interface{}, []types.NodeTrace, error) {
	if c.run != nil {
		return c.run(nodeIDs, seed)
	}
	return seed, nil, nil
}
