// Package config centralizes configuration for the workflow execution
// engine: node/HTTP/LLM timeouts, the filesystem/database safe directories,
// the ollama host allow-list, the server's CORS origin list, and resource
// ceilings.
//
// # Zero trust security
//
// The http node is disabled unless AllowHTTP is set. Requests to
// private/loopback/link-local IPs and cloud metadata endpoints are blocked
// unless explicitly allowed; both http and https URLs are accepted. File and
// database nodes may only read/write inside a configured safe directory.
//
// # Basic usage
//
//	cfg := config.Default()
//	resp := engine.Run(wf, cfg, executor.NewDefaultRegistry())
//
// # Constructors
//
// Default returns secure, production-ready defaults. Development relaxes
// network restrictions for local iteration. Production is the strictest
// preset. Testing shortens timeouts for fast test suites.
package config
