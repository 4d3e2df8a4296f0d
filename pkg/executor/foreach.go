package executor

import (
	"fmt"
	"sync"

	"github.com/flowforge/engine/pkg/types"
)

// ForEachExecutor runs the foreach node's body once per item of its
// resolved iteration set, aggregating the per-iteration outcomes. The
// body is discovered from the graph, not the node's own config.
type ForEachExecutor struct{}

func (e *ForEachExecutor) NodeType() types.NodeType { return types.NodeTypeForEach }

// iterationOutcome is one entry of the aggregation's "results" array.
type iterationOutcome struct {
	Item           interface{}       `json:"item"`
	Output         interface{}       `json:"output"`
	Status         string            `json:"status"`
	Error          string            `json:"error,omitempty"`
	NodeExecutions []types.NodeTrace `json:"node_executions"`
}

func (e *ForEachExecutor) Execute(ctx ExecutionContext, node types.Node, input interface{}) types.NodeOutcome {
	items, err := resolveIterationSet(node, input)
	if err != nil {
		return types.Failure(err, "", 0)
	}

	body := ctx.Graph().ForEachBody(node.ID)
	endLoopID, hasEndLoop := ctx.Graph().ForEachEndLoop(node.ID)
	bodyAndTerminator := body
	if hasEndLoop {
		bodyAndTerminator = append(append([]string{}, body...), endLoopID)
	}

	if len(items) == 0 {
		return withEndLoopID(types.Success(finalizeAggregation(buildAggregation(nil, nil, hasEndLoop), hasEndLoop), 0), endLoopID)
	}

	parallel := types.GetStringDefault(node.Config, "execution_mode", "serial") == "parallel"
	maxConcurrency := types.GetInt(node.Config, "max_concurrency", ctx.Config().ForeachDefaultMaxConcurrency)
	if maxConcurrency <= 0 {
		maxConcurrency = ctx.Config().ForeachDefaultMaxConcurrency
	}

	outcomes := make([]iterationOutcome, len(items))

	run := func(i int) {
		outcomes[i] = runIteration(ctx, bodyAndTerminator, input, items[i])
	}

	if !parallel {
		for i := range items {
			run(i)
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, maxConcurrency)
		for i := range items {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()
				run(i)
			}(i)
		}
		wg.Wait()
	}

	return withEndLoopID(types.Success(finalizeAggregation(buildAggregation(outcomes, items, hasEndLoop), hasEndLoop), 0), endLoopID)
}

// withEndLoopID tags the outcome with the loop's terminator node id so the
// top-level scheduler can skip re-running endloop as an ordinary node.
func withEndLoopID(outcome types.NodeOutcome, endLoopID string) types.NodeOutcome {
	outcome.EndLoopNodeID = endLoopID
	return outcome
}

// finalizeAggregation hands the aggregation through the coordinator-level
// EndLoop invocation (§4.3/§4.5): when the loop has a terminator, the
// foreach's own output is what EndLoop reshapes the aggregation into, not
// the raw aggregation map.
func finalizeAggregation(agg map[string]interface{}, hasEndLoop bool) interface{} {
	if !hasEndLoop {
		return agg
	}
	outcome := (&EndLoopExecutor{}).Execute(nil, types.Node{Type: types.NodeTypeEndLoop}, agg)
	return outcome.Output
}

// resolveIterationSet implements §4.3's iteration-set rule: a sequence
// input iterates directly; a mapping input iterates over its items_key
// field (default "items") when that is a sequence; otherwise falls back
// to node.Config["items"]. Anything else is a structural error.
func resolveIterationSet(node types.Node, input interface{}) ([]interface{}, error) {
	if seq, ok := types.AsSlice(input); ok {
		return seq, nil
	}
	itemsKey := types.GetStringDefault(node.Config, "items_key", "items")
	if m, ok := types.AsMap(input); ok {
		if seq, ok := types.AsSlice(m[itemsKey]); ok {
			return seq, nil
		}
	}
	if seq, ok := types.GetSlice(node.Config, "items"); ok {
		return seq, nil
	}
	return nil, fmt.Errorf("%w: got %T", ErrNonIterableInput, input)
}

// runIteration shapes the per-item input (§4.3's "_workflow_context"
// attachment) and runs the body through the sub-workflow runner.
func runIteration(ctx ExecutionContext, bodyAndTerminator []string, loopInput, item interface{}) iterationOutcome {
	iterInput := item
	if itemMap, ok := types.AsMap(item); ok {
		if loopMap, ok := types.AsMap(loopInput); ok {
			shaped := types.CloneMap(itemMap)
			shaped["_workflow_context"] = loopMap
			iterInput = shaped
		}
	}

	output, trace, err := ctx.RunSubWorkflow(bodyAndTerminator, iterInput)
	if err != nil {
		return iterationOutcome{
			Item:           item,
			Output:         output,
			Status:         "error",
			Error:          err.Error(),
			NodeExecutions: trace,
		}
	}
	return iterationOutcome{
		Item:           item,
		Output:         output,
		Status:         "success",
		NodeExecutions: trace,
	}
}

// buildAggregation assembles §4.3's aggregation value. Without an endloop
// the shape omits aggregated_outputs/items for backward compatibility.
func buildAggregation(outcomes []iterationOutcome, items []interface{}, hasEndLoop bool) map[string]interface{} {
	results := make([]interface{}, len(outcomes))
	successful := 0
	aggregatedOutputs := make([]interface{}, 0, len(outcomes))
	for i, o := range outcomes {
		results[i] = map[string]interface{}{
			"item":            o.Item,
			"output":          o.Output,
			"status":          o.Status,
			"error":           o.Error,
			"node_executions": o.NodeExecutions,
		}
		if o.Status == "success" {
			successful++
			aggregatedOutputs = append(aggregatedOutputs, o.Output)
		}
	}

	agg := map[string]interface{}{
		"results":    results,
		"total":      len(outcomes),
		"successful": successful,
		"failed":     len(outcomes) - successful,
	}
	if hasEndLoop {
		agg["aggregated_outputs"] = aggregatedOutputs
		itemsOut := make([]interface{}, len(items))
		copy(itemsOut, items)
		agg["items"] = itemsOut
	}
	return agg
}
