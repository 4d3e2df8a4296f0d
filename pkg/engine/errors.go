package engine

import "errors"

// Sentinel errors for the top-level scheduler and sub-workflow runner.
var (
	ErrEmptyWorkflow = errors.New("workflow contains no nodes")
	ErrNodeNotFound  = errors.New("node not found in workflow")
)
