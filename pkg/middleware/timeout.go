package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/flowforge/engine/pkg/executor"
	"github.com/flowforge/engine/pkg/types"
)

// TimeoutMiddlewareWithContext runs the handler in a goroutine and returns a
// timeout error if it has not finished within the limit. The limit is timed
// with its own context; the caller's context is not consulted, and the
// handler is not cancelled on timeout.
type TimeoutMiddlewareWithContext struct {
	defaultTimeout time.Duration
}

// NewTimeoutMiddlewareWithContext creates a context-aware timeout middleware
func NewTimeoutMiddlewareWithContext(defaultTimeout time.Duration) *TimeoutMiddlewareWithContext {
	return &TimeoutMiddlewareWithContext{
		defaultTimeout: defaultTimeout,
	}
}

// Process enforces execution timeout using context
func (m *TimeoutMiddlewareWithContext) Process(ctx executor.ExecutionContext, node types.Node, input interface{}, next Handler) (interface{}, error) {
	// Use default timeout for all nodes
	// Node-specific timeout parsing can be added if needed
	timeout := m.defaultTimeout

	// If timeout is 0 or negative, no timeout is enforced
	if timeout <= 0 {
		return next(ctx, node, input)
	}

	// Create context with timeout
	timeoutCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Create a channel for the result
	type result struct {
		value interface{}
		err   error
	}
	resultChan := make(chan result, 1)

	// Execute in goroutine
	go func() {
		value, err := next(ctx, node, input)
		resultChan <- result{value: value, err: err}
	}()

	// Wait for result or timeout
	select {
	case res := <-resultChan:
		return res.value, res.err
	case <-timeoutCtx.Done():
		return nil, fmt.Errorf("node execution timeout after %v", timeout)
	}
}

// Name returns the middleware name
func (m *TimeoutMiddlewareWithContext) Name() string {
	return "TimeoutWithContext"
}
