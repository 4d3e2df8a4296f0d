// Package engine drives a single workflow to completion. See doc.go for the
// overview.
package engine

import (
	"fmt"
	"time"

	"github.com/flowforge/engine/pkg/config"
	"github.com/flowforge/engine/pkg/executor"
	"github.com/flowforge/engine/pkg/graph"
	"github.com/flowforge/engine/pkg/logging"
	"github.com/flowforge/engine/pkg/middleware"
	"github.com/flowforge/engine/pkg/types"
)

// stickyMetadataKeys are re-injected into a sub-workflow node's mapping
// output when the executor didn't already set them, so a condition router
// can set them once and have them stay visible through the rest of a
// foreach body (§4.2 "metadata preservation").
var stickyMetadataKeys = []string{"route", "action", "priority"}

// transientIOErrors names the error substrings that make a failed http,
// llm, or database node worth retrying: transport-level hiccups, not
// validation or application errors the node would just fail again on.
var transientIOErrors = []string{
	"connection refused",
	"connection reset",
	"i/o timeout",
	"context deadline exceeded",
	"EOF",
	"TLS handshake timeout",
	"no such host",
}

// Node types for which ioBoundNodeType is true get a chain with retry/timeout on top of logging,
// metrics, and size limits: they're the nodes that leave the process and
// can fail on a transient network blip (§4.1's per-type timeout note).
func ioBoundNodeType(t types.NodeType) bool {
	switch t {
	case types.NodeTypeHTTP, types.NodeTypeLLM, types.NodeTypeDatabase:
		return true
	default:
		return false
	}
}

// Scheduler drives one workflow run. It implements executor.ExecutionContext
// so the registry can hand it back to executors that need the graph
// (foreach body discovery) or need to recurse into a loop body
// (RunSubWorkflow).
type Scheduler struct {
	cfg      *config.Config
	graph    *graph.Graph
	registry *executor.Registry
	nodes    []types.Node
	logger   *logging.Logger
	chain    *middleware.Chain
	ioChain  *middleware.Chain
	metrics  *middleware.InMemoryMetricsCollector
}

// NewScheduler builds a Scheduler for one workflow run. nodes and conns must
// already be in declaration order (see OrderedNodes/OrderedConnections) so
// fan-in tie-breaks are deterministic across runs of the same request.
func NewScheduler(nodes []types.Node, conns []types.Connection, cfg *config.Config, registry *executor.Registry) *Scheduler {
	logger := logging.New(logging.DefaultConfig())
	metrics := middleware.NewInMemoryMetricsCollector()
	chain := middleware.NewChain().
		Use(middleware.NewValidationMiddleware(registry)).
		Use(middleware.NewLoggingMiddleware(logger)).
		Use(middleware.NewMetricsMiddleware(metrics)).
		Use(middleware.NewSizeLimitMiddleware())

	retryCfg := middleware.RetryConfig{
		MaxRetries:     cfg.DefaultMaxAttempts - 1,
		InitialBackoff: cfg.DefaultBackoff,
		MaxBackoff:     10 * cfg.DefaultBackoff,
		BackoffFactor:  2.0,
	}
	ioChain := middleware.NewChain().
		Use(middleware.NewValidationMiddleware(registry)).
		Use(middleware.NewLoggingMiddleware(logger)).
		Use(middleware.NewMetricsMiddleware(metrics)).
		Use(middleware.NewSizeLimitMiddleware()).
		Use(middleware.NewConditionalRetryMiddlewareWithConfig(retryCfg, transientIOErrors)).
		Use(middleware.NewTimeoutMiddlewareWithContext(cfg.MaxNodeExecutionTime))

	return &Scheduler{
		cfg:      cfg,
		graph:    graph.New(nodes, conns),
		registry: registry,
		nodes:    nodes,
		logger:   logger,
		chain:    chain,
		ioChain:  ioChain,
		metrics:  metrics,
	}
}

// execute runs node through its middleware chain (validation, logging,
// metrics, size limits, and for http/llm/database nodes, conditional retry
// plus a timeout) before the registered executor. The chain only sees a
// (result, error) pair, so the full NodeOutcome is sent back over outcomeCh
// by the innermost handler; a channel, rather than a plain captured
// variable, is required because TimeoutMiddlewareWithContext runs the
// handler in its own goroutine, and a short-circuiting middleware (e.g.
// validation rejecting the node) never runs the handler at all. In that
// case outcomeCh stays empty and the chain's own error becomes the outcome.
func (s *Scheduler) execute(node types.Node, input interface{}) types.NodeOutcome {
	outcomeCh := make(chan types.NodeOutcome, 1)
	handler := func(ctx executor.ExecutionContext, n types.Node, in interface{}) (interface{}, error) {
		outcome := s.registry.Execute(ctx, n, in)
		outcomeCh <- outcome
		if outcome.IsError() {
			return outcome.Output, fmt.Errorf("%s", outcomeMessage(outcome))
		}
		return outcome.Output, nil
	}

	chain := s.chain
	if ioBoundNodeType(node.Type) {
		chain = s.ioChain
	}
	_, chainErr := chain.Execute(s, node, input, handler)

	select {
	case outcome := <-outcomeCh:
		return outcome
	default:
		return types.Failure(chainErr, "", 0)
	}
}

// Config implements executor.ExecutionContext.
func (s *Scheduler) Config() *config.Config { return s.cfg }

// Graph implements executor.ExecutionContext.
func (s *Scheduler) Graph() *graph.Graph { return s.graph }

// OrderedNodes reconstructs wf's nodes in the original request's key order.
func OrderedNodes(wf types.Workflow) []types.Node {
	nodes := make([]types.Node, 0, len(wf.NodeOrder))
	for _, id := range wf.NodeOrder {
		if n, ok := wf.Nodes[id]; ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// OrderedConnections reconstructs wf's connections in the original request's
// key order.
func OrderedConnections(wf types.Workflow) []types.Connection {
	conns := make([]types.Connection, 0, len(wf.ConnectionOrder))
	for _, id := range wf.ConnectionOrder {
		if c, ok := wf.Connections[id]; ok {
			conns = append(conns, c)
		}
	}
	return conns
}

// Run executes wf to completion and assembles the response. Node-level
// failures never surface as a Go error: they are reported in the response
// body per the "always 200 with trace" contract (§7).
func Run(wf types.Workflow, cfg *config.Config, registry *executor.Registry) types.RunResponse {
	started := time.Now()

	nodes := OrderedNodes(wf)
	conns := OrderedConnections(wf)

	if len(nodes) == 0 {
		return types.RunResponse{
			Status:    types.StatusSuccess,
			Nodes:     []types.NodeTrace{},
			TotalTime: time.Since(started).Seconds(),
		}
	}

	s := NewScheduler(nodes, conns, cfg, registry)
	return s.run(started)
}

// run implements the §4.1 top-level scheduler algorithm.
func (s *Scheduler) run(started time.Time) types.RunResponse {
	masked := s.maskedSet()
	order := s.graph.TopologicalSort()

	outputs := make(map[string]interface{}, len(s.nodes))
	recorded := make(map[string]bool, len(s.nodes))
	trace := make([]types.NodeTrace, 0, len(s.nodes))

	for _, id := range order {
		if masked[id] {
			s.logger.WithField("node_id", id).Debug("node masked by foreach body")
			continue
		}
		if recorded[id] {
			// Already produced by a prior foreach handoff; the top-level
			// sweep just reuses it.
			continue
		}

		node := s.graph.GetNode(id)
		if node == nil {
			continue
		}

		input := s.resolveInput(*node, outputs, recorded)

		var outcome types.NodeOutcome
		if node.SkipDuringExecution {
			outcome = types.Success(input, 0)
		} else {
			outcome = s.execute(*node, input)
		}
		outputs[id] = outcome.Output
		recorded[id] = true
		trace = append(trace, types.NodeTrace{ID: id, NodeOutcome: outcome, Title: node.Title})

		if outcome.IsError() {
			return s.errorResponse(trace, id, outcome, started)
		}

		if outcome.EndLoopNodeID != "" && !recorded[outcome.EndLoopNodeID] {
			endLoopNode := s.graph.GetNode(outcome.EndLoopNodeID)
			if endLoopNode == nil {
				continue
			}

			endOutcome := s.execute(*endLoopNode, outcome.Output)
			outputs[outcome.EndLoopNodeID] = endOutcome.Output
			recorded[outcome.EndLoopNodeID] = true
			trace[len(trace)-1].Stdout = augmentStdout(trace[len(trace)-1].Stdout, outcome.EndLoopNodeID)
			trace = append(trace, types.NodeTrace{ID: outcome.EndLoopNodeID, NodeOutcome: endOutcome, Title: endLoopNode.Title})

			if endOutcome.IsError() {
				return s.errorResponse(trace, outcome.EndLoopNodeID, endOutcome, started)
			}
		}
	}

	return types.RunResponse{
		Status:    types.StatusSuccess,
		Nodes:     trace,
		TotalTime: time.Since(started).Seconds(),
	}
}

// maskedSet computes every node inside some foreach's body, excluding the
// foreach node itself (§4.1 "foreach-body masking").
func (s *Scheduler) maskedSet() map[string]bool {
	masked := make(map[string]bool)
	for _, n := range s.nodes {
		if n.Type != types.NodeTypeForEach {
			continue
		}
		for _, id := range s.graph.ForEachBody(n.ID) {
			masked[id] = true
		}
	}
	return masked
}

// resolveInput implements §4.1's input-resolution rule for a top-level node.
func (s *Scheduler) resolveInput(node types.Node, outputs map[string]interface{}, recorded map[string]bool) interface{} {
	candidates := make([]string, 0, 2)
	seen := make(map[string]bool, 2)
	for _, c := range s.graph.GetNodeInputConnections(node.ID) {
		if recorded[c.Source] && !seen[c.Source] {
			candidates = append(candidates, c.Source)
			seen[c.Source] = true
		}
	}

	if len(candidates) == 0 {
		return map[string]interface{}{}
	}
	if len(candidates) == 1 {
		return outputs[candidates[0]]
	}

	if node.Type == types.NodeTypeForEach {
		for _, id := range candidates {
			if m, ok := types.AsMap(outputs[id]); ok {
				if _, hasItems := m["items"]; hasItems {
					return outputs[id]
				}
			}
		}
	}

	return outputs[candidates[0]]
}

// errorResponse assembles the response for the scheduler's "stop at first
// error" failure policy (§4.1, §7).
func (s *Scheduler) errorResponse(trace []types.NodeTrace, failingID string, outcome types.NodeOutcome, started time.Time) types.RunResponse {
	msg := fmt.Sprintf("node %s failed: %s", failingID, outcomeMessage(outcome))
	return types.RunResponse{
		Status:    types.StatusError,
		Nodes:     trace,
		TotalTime: time.Since(started).Seconds(),
		Error:     &msg,
	}
}

func outcomeMessage(outcome types.NodeOutcome) string {
	if outcome.Error != nil {
		return *outcome.Error
	}
	return "unknown error"
}

// augmentStdout notes the automatic endloop handoff on the foreach node's
// own trace entry (§4.1 "appends the foreach outcome with stdout
// augmented").
func augmentStdout(stdout, endLoopID string) string {
	note := fmt.Sprintf("endloop %s applied", endLoopID)
	if stdout == "" {
		return note
	}
	return stdout + "; " + note
}

// RunSubWorkflow implements executor.ExecutionContext for the foreach
// executor: it runs nodeIDs in order against seed, honouring
// skipDuringExecution and sticky-key metadata preservation (§4.2), and
// returns the last executed node's output.
func (s *Scheduler) RunSubWorkflow(nodeIDs []string, seed interface{}) (interface{}, []types.NodeTrace, error) {
	if len(nodeIDs) == 0 {
		return seed, nil, nil
	}

	localOutputs := make(map[string]interface{}, len(nodeIDs))
	recorded := make(map[string]bool, len(nodeIDs))
	trace := make([]types.NodeTrace, 0, len(nodeIDs))
	currentInput := seed

	for _, id := range nodeIDs {
		node := s.graph.GetNode(id)
		if node == nil {
			return currentInput, trace, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}

		input := s.resolveSubWorkflowInput(*node, localOutputs, recorded, currentInput)

		var outcome types.NodeOutcome
		switch {
		case node.SkipDuringExecution:
			outcome = types.Success(input, 0)
		case node.Type == types.NodeTypeEndLoop:
			// The aggregation has already happened by the time endloop
			// appears inside a body; here it is a pure pass-through.
			outcome = types.Success(input, 0)
		default:
			outcome = s.execute(*node, input)
		}

		outcome.Output = preserveStickyMetadata(input, outcome.Output)

		localOutputs[id] = outcome.Output
		recorded[id] = true
		currentInput = outcome.Output
		trace = append(trace, types.NodeTrace{ID: id, NodeOutcome: outcome, Title: node.Title})

		if outcome.IsError() {
			return outcome.Output, trace, fmt.Errorf("node %s failed: %s", id, outcomeMessage(outcome))
		}
	}

	return currentInput, trace, nil
}

// resolveSubWorkflowInput implements §4.2 step 1: a predecessor already
// recorded in local_outputs wins; otherwise the running current_input
// (seeded from the iteration's item) carries forward.
func (s *Scheduler) resolveSubWorkflowInput(node types.Node, localOutputs map[string]interface{}, recorded map[string]bool, currentInput interface{}) interface{} {
	for _, c := range s.graph.GetNodeInputConnections(node.ID) {
		if recorded[c.Source] {
			return localOutputs[c.Source]
		}
	}
	return currentInput
}

// preserveStickyMetadata re-injects "_workflow_context" and the fixed set of
// sticky keys into a mapping output when the executor didn't set them
// itself (§4.2 step 4, design note "Loop metadata preservation").
func preserveStickyMetadata(input, output interface{}) interface{} {
	inputMap, ok := types.AsMap(input)
	if !ok {
		return output
	}
	outputMap, ok := types.AsMap(output)
	if !ok {
		return output
	}

	shaped := types.CloneMap(outputMap)
	if _, has := shaped["_workflow_context"]; !has {
		if wc, has := inputMap["_workflow_context"]; has {
			shaped["_workflow_context"] = wc
		}
	}
	for _, key := range stickyMetadataKeys {
		if _, has := shaped[key]; !has {
			if v, has := inputMap[key]; has {
				shaped[key] = v
			}
		}
	}
	return shaped
}
