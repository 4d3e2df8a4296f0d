package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// Execution time errors
	ErrInvalidExecutionTime     = errors.New("invalid max execution time: must be non-negative")
	ErrInvalidNodeExecutionTime = errors.New("invalid max node execution time: must be non-negative")
	ErrInvalidMaxIterations     = errors.New("invalid max iterations: must be non-negative")

	// HTTP configuration errors
	ErrInvalidHTTPTimeout     = errors.New("invalid HTTP timeout: must be non-negative")
	ErrInvalidMaxRedirects    = errors.New("invalid max redirects: must be non-negative")
	ErrInvalidMaxResponseSize = errors.New("invalid max response size: must be non-negative")
	ErrInvalidURLPattern      = errors.New("invalid URL pattern")
	ErrInvalidDomain          = errors.New("invalid domain")

	// LLM configuration errors
	ErrInvalidLLMTimeout     = errors.New("invalid LLM timeout: must be non-negative")
	ErrInvalidOllamaTimeout  = errors.New("invalid ollama timeout: must be non-negative")
	ErrInvalidOllamaHost     = errors.New("invalid ollama host entry")

	// Subprocess sandbox errors
	ErrInvalidSubprocessTimeout = errors.New("invalid subprocess timeout: must be non-negative")

	// Safe directory errors
	ErrEmptySafeFileDir     = errors.New("safe file directory must not be empty")
	ErrEmptySafeDatabaseDir = errors.New("safe database directory must not be empty")

	// Resource limit errors
	ErrInvalidInputSize      = errors.New("invalid max input size: must be non-negative")
	ErrInvalidPayloadSize    = errors.New("invalid max payload size: must be non-negative")
	ErrInvalidMaxNodes       = errors.New("invalid max nodes: must be non-negative")
	ErrInvalidMaxEdges       = errors.New("invalid max edges: must be non-negative")
	ErrInvalidStringLength   = errors.New("invalid max string length: must be non-negative")
	ErrInvalidArrayLength    = errors.New("invalid max array length: must be non-negative")
	ErrInvalidMaxConcurrency = errors.New("invalid foreach max concurrency: must be positive")

	// Retry configuration errors
	ErrInvalidMaxAttempts = errors.New("invalid max attempts: must be positive")
	ErrInvalidBackoff     = errors.New("invalid backoff duration: must be non-negative")
)
