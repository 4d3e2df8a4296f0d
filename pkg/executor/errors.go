package executor

import "errors"

// Sentinel errors for node executors, grouped by the error kind a failure
// belongs to so the server can classify outcomes without string-sniffing.
var (
	// Structural: malformed workflow, unknown node type, non-iterable
	// foreach input.
	ErrUnknownNodeType  = errors.New("no executor registered for node type")
	ErrNonIterableInput = errors.New("foreach input is not iterable")

	// User-code: inline-script compilation or runtime failure, SQL errors.
	ErrScriptFailed = errors.New("script execution failed")
	ErrSQLFailed    = errors.New("database query failed")

	// Policy: path escapes the safe root, ollama host not allow-listed,
	// missing API key, unsupported extension loading.
	ErrPathEscapesRoot  = errors.New("path escapes the safe directory")
	ErrOllamaHostBlocked = errors.New("ollama host is not in the allow-list")
	ErrMissingAPIKey    = errors.New("missing LLM API key")

	// External I/O: HTTP non-2xx, timeout, DNS failure, LLM provider error.
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	ErrLLMRequestFailed  = errors.New("LLM request failed")

	// Data-shape: JSON-viewer content_key missing, embedding model
	// unavailable.
	ErrContentKeyMissing  = errors.New("content_key not found in input")
	ErrNoStringContent    = errors.New("no string content found in input")
	ErrEmbeddingUnavailable = errors.New("embedding model unavailable")

	// File node.
	ErrFileNotFound = errors.New("file not found")

	// Condition node.
	ErrNoClauseMatched = errors.New("no condition clause matched and no default is set")
)
