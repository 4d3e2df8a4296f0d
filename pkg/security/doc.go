// Package security provides network and filesystem access controls for
// workflow execution: SSRF protection for the http and llm (ollama) nodes,
// and safe-directory path confinement for the file and database nodes.
//
// # Zero trust posture
//
// Private network targets and paths outside the safe directories are denied
// unless explicitly allowed; public hosts are reachable. SSRFProtection blocks private, loopback, link-local, and cloud-metadata
// addresses by default; SafePath confines any client-supplied path to a
// configured root directory.
package security
