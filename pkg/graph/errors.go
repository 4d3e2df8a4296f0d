package graph

import "errors"

// Sentinel errors for graph operations.
var (
	ErrEmptyGraph   = errors.New("graph is empty")
	ErrNodeNotFound = errors.New("node not found in graph")
)
