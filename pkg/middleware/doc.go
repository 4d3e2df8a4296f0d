// Package middleware provides request/response middleware for the workflow engine.
//
// # Overview
//
// The middleware package implements an interceptor pattern for node execution,
// allowing pre-processing, post-processing, and wrapping of each node's
// executor call. This enables cross-cutting concerns like validation, logging,
// metrics, retries, timeouts, and rate and size limits.
//
// # Features
//
//   - Node middleware: Intercept individual node execution
//   - Chain composition: Stack multiple middleware
//   - Order control: Explicit middleware ordering
//   - Context propagation: Pass data through middleware chain
//   - Error handling: Intercept and transform errors
//
// # Middleware Interface
//
//	type Handler func(ctx executor.ExecutionContext, node types.Node, input interface{}) (interface{}, error)
//
//	type Middleware interface {
//	    Process(ctx executor.ExecutionContext, node types.Node, input interface{}, next Handler) (interface{}, error)
//	    Name() string
//	}
//
// # Basic Usage
//
//	import "github.com/flowforge/engine/pkg/middleware"
//
//	chain := middleware.NewChain().
//	    Use(middleware.NewLoggingMiddleware(logger)).
//	    Use(middleware.NewMetricsMiddleware(metricsCollector))
//
//	result, err := chain.Execute(ctx, node, input, handler)
//
// # Custom Middleware Example
//
//	type TimingMiddleware struct{}
//
//	func (m *TimingMiddleware) Process(ctx executor.ExecutionContext, node types.Node, input interface{}, next middleware.Handler) (interface{}, error) {
//	    start := time.Now()
//	    result, err := next(ctx, node, input)
//	    log.Printf("node %s took %v", node.ID, time.Since(start))
//	    return result, err
//	}
//
//	func (m *TimingMiddleware) Name() string { return "Timing" }
//
// # Built-in Middleware
//
// Validation Middleware (NewValidationMiddleware):
//   - Validates the node against the executor registry before running it
//
// Logging Middleware (NewLoggingMiddleware):
//   - Logs node start and completion at debug level, failures at error level
//   - Includes the duration in milliseconds
//
// Metrics Middleware (NewMetricsMiddleware):
//   - Records execution duration and success/failure per node type
//   - Records errors per node type
//
// Size Limit Middleware (NewSizeLimitMiddleware):
//   - Checks input and result sizes, string lengths and array lengths
//
// Rate Limit Middleware (NewRateLimitMiddleware):
//   - Token-bucket limits, global and per node type
//
// Retry Middleware (NewRetryMiddleware, NewConditionalRetryMiddleware):
//   - Automatic retry on failure (conditional variant: only on listed errors)
//   - Exponential backoff
//   - Configurable retry limits
//
// Timeout Middleware (NewTimeoutMiddlewareWithContext):
//   - Enforces execution time limits
//   - Returns a timeout error once the limit passes; the handler is not
//     cancelled and keeps running in its goroutine
//
// # Middleware Chain
//
// Middleware executes in the order it was added: the first middleware passed
// to Use is the outermost, so it runs first on the way in and last on the
// way out:
//
//	Chain:  [Validation] → [Logging] → [Metrics] → [Handler]
//	        ↓              ↓           ↓            ↓
//	Request →→→→→→→→→→→→→→→→→→→→→→→→→→→→→→→→→→→→→→→ Execute
//	        ←←←←←←←←←←←←←←←←←←←←←←←←←←←←←←←←←←←←←←← Response
//	        ↑              ↑           ↑            ↑
//	        [Validation]   [Logging]   [Metrics]   [Handler]
//
// # Error Handling
//
// Middleware can intercept and transform errors:
//
//	func (m *ErrorMiddleware) Process(ctx executor.ExecutionContext, node types.Node, input interface{}, next middleware.Handler) (interface{}, error) {
//	    result, err := next(ctx, node, input)
//	    if err != nil {
//	        // Log error
//	        logger.WithError(err).Error("Node failed")
//	        // Transform error
//	        return nil, fmt.Errorf("node %s failed: %w", node.ID, err)
//	    }
//	    return result, nil
//	}
//
// # Performance Considerations
//
//   - Minimize allocations in hot paths
//   - Use context for request-scoped data
//   - Avoid blocking operations in middleware
//   - Consider middleware overhead for high-throughput scenarios
//
// # Use Cases
//
//   - Authentication and authorization
//   - Request/response logging
//   - Metrics collection and monitoring
//   - Caching and memoization
//   - Rate limiting and throttling
//   - Input validation and sanitization
//   - Error handling and recovery
//   - Request tracing and correlation
//
// # Best Practices
//
//   - Keep middleware focused on a single concern
//   - Avoid modifying workflow/node state in middleware
//   - Use context for passing request-scoped data
//   - Always call next() unless explicitly stopping the chain
//   - Handle errors appropriately (wrap, transform, or log)
//   - Document middleware ordering requirements
//
// # Thread Safety
//
// Middleware implementations should be stateless and thread-safe.
// The same middleware instance may be used concurrently by multiple
// goroutines.
package middleware
