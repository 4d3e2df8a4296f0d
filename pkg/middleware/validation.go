package middleware

import (
	"fmt"

	"github.com/flowforge/engine/pkg/executor"
	"github.com/flowforge/engine/pkg/types"
)

// ValidationMiddleware validates node configuration before execution.
// It uses the executor's Validate method to ensure node data is valid.
type ValidationMiddleware struct {
	registry interface {
		Validate(node types.Node) error
	}
}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware(registry interface{ Validate(node types.Node) error }) *ValidationMiddleware {
	return &ValidationMiddleware{
		registry: registry,
	}
}

// Process validates node before execution
func (m *ValidationMiddleware) Process(ctx executor.ExecutionContext, node types.Node, input interface{}, next Handler) (interface{}, error) {
	// Validate node configuration
	if m.registry != nil {
		if err := m.registry.Validate(node); err != nil {
			return nil, fmt.Errorf("node validation failed: %w", err)
		}
	}

	// Validation passed, continue execution
	return next(ctx, node, input)
}

// Name returns the middleware name
func (m *ValidationMiddleware) Name() string {
	return "Validation"
}
