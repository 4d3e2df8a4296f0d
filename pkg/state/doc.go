// Package state holds the process-wide caches that survive across workflow
// runs: the embedding node's name-keyed model cache and the database node's
// vector-search extension result, computed once for the whole process.
//
// Unlike per-run execution state (which lives in the engine's
// sub-workflow output maps), both caches here are intentionally global and
// idempotent — the first workflow to reference a given embedding model
// name pays its setup cost once, and every later reference across every
// later run reuses the same cached handle.
package state
