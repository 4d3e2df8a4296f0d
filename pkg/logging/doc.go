// Package logging provides structured logging capabilities for the workflow engine.
//
// # Overview
//
// The logging package implements a structured logging system with support for
// multiple output formats, log levels, contextual information, and integration
// with the workflow execution lifecycle.
//
// # Features
//
//   - Structured logging: JSON and text formats
//   - Log levels: DEBUG, INFO, WARN, ERROR
//   - Context propagation: Execution ID, workflow ID, node ID
//   - Level filtering: one minimum level per logger
//   - Performance: Minimal overhead for disabled log levels
//   - Thread-safe: Safe for concurrent use
//   - Flexible output: Write to any io.Writer
//
// # Log Levels
//
// The package supports standard log levels:
//
//   - DEBUG: Detailed diagnostic information
//   - INFO: General informational messages
//   - WARN: Warning messages for potential issues
//   - ERROR: Error messages for failures
//
// # Basic Usage
//
//	import "github.com/flowforge/engine/pkg/logging"
//
//	// Create logger (JSON output unless Pretty is set)
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Output: os.Stdout,
//	})
//
//	// Log messages; fields are attached with the With* methods
//	logger.WithWorkflowID("wf-123").
//	    WithField("node_count", 42).
//	    Info("Workflow started")
//
//	logger.WithNodeID("node-5").WithError(err).Error("Execution failed")
//
// # Context Integration
//
// A logger can be stored in and retrieved from a Go context; no fields are
// extracted from the context automatically:
//
//	ctx = logger.WithContext(ctx)
//	logging.FromContext(ctx).WithNodeType("http").Info("Node executing")
//
// FromContext returns a logger with DefaultConfig when the context holds none.
//
// # Structured Fields
//
// All log entries support structured fields:
//
//	logger.WithFields(map[string]interface{}{
//	    "method": "GET",
//	    "url": "https://api.example.com",
//	    "status": 200,
//	    "duration_ms": 145,
//	}).Info("HTTP request completed")
//
// # Output Formats
//
// Output is produced by log/slog handlers.
//
// JSON Format (default):
//
//	{"time":"2024-01-15T10:30:00Z","level":"INFO","msg":"Workflow started","workflow_id":"wf-123","execution_id":"exec-456"}
//
// Text Format (Pretty: true):
//
//	time=2024-01-15T10:30:00.000Z level=INFO msg="Workflow started" workflow_id=wf-123 execution_id=exec-456
//
// # Configuration
//
// Logger configuration options:
//
//	config := logging.Config{
//	    Level:         "debug",    // Minimum level: debug, info, warn, error (unknown values mean info)
//	    Output:        os.Stdout,  // Where to write logs (nil means os.Stdout)
//	    Pretty:        false,      // true selects text output, false JSON
//	    IncludeCaller: true,       // Include source file:line
//	}
//
// # Performance Considerations
//
//   - Records below the configured level are dropped by the slog handler
//   - Output is written directly to the configured io.Writer without buffering
//
// # Common Logging Patterns
//
// Workflow execution:
//
//	logger.WithWorkflowID(workflow.ID).
//	    WithField("node_count", len(workflow.Nodes)).
//	    Info("Workflow execution started")
//
// Node execution:
//
//	logger.WithNodeID(node.ID).WithNodeType(node.Type).Debug("Node executing")
//
// Error logging:
//
//	logger.WithNodeID(node.ID).WithError(err).
//	    WithField("retry_count", retries).
//	    Error("Node execution failed")
//
// # Integration with Execution
//
// The scheduler in pkg/engine logs node execution through
// middleware.LoggingMiddleware, which writes "node execution started" and
// "node execution completed" at debug level and "node execution failed" at
// error level, with the node's ID and type attached as fields.
//
// # Best Practices
//
//   - Use structured fields instead of string formatting
//   - Include execution context (workflow_id, node_id, etc.)
//   - Log at appropriate levels (avoid debug in production)
//   - Add timing information for performance analysis
//   - Include error context (not just error message)
//   - Use consistent field names across the codebase
//
// # Thread Safety
//
// All logger operations are thread-safe and can be used concurrently
// from multiple goroutines without additional synchronization.
//
// # Testing
//
// For testing, use a logger with a buffer:
//
//	buf := &bytes.Buffer{}
//	logger := logging.New(logging.Config{
//	    Output: buf,
//	})
//
//	// Execute code
//	// Verify log output
//	assert.Contains(t, buf.String(), "expected message")
package logging
