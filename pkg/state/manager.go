package state

import (
	"sync"
)

// EmbeddingModel is a cached, idempotently-initialized embedding model
// handle. The embedding node's deterministic feature-hashing scheme needs
// no external weights, but still caches the model by name so concurrent
// foreach iterations over the same model don't race to set it up.
type EmbeddingModel struct {
	Name string
	Dim  int
}

var (
	embeddingModels   sync.Map // map[string]*EmbeddingModel
	embeddingModelsMu sync.Mutex
)

// GetOrCreateEmbeddingModel returns the cached model for name, creating and
// caching one with the given dimension if this is the first reference.
// Later calls with the same name ignore dim and return the original
// cached model, matching "first use wins" process-wide cache semantics.
func GetOrCreateEmbeddingModel(name string, dim int) (*EmbeddingModel, error) {
	if name == "" {
		return nil, ErrEmptyModelName
	}
	if v, ok := embeddingModels.Load(name); ok {
		return v.(*EmbeddingModel), nil
	}

	embeddingModelsMu.Lock()
	defer embeddingModelsMu.Unlock()

	if v, ok := embeddingModels.Load(name); ok {
		return v.(*EmbeddingModel), nil
	}
	model := &EmbeddingModel{Name: name, Dim: dim}
	embeddingModels.Store(name, model)
	return model, nil
}

// ResetEmbeddingModels clears the process-wide embedding model cache. Used
// by tests that need isolation between cases.
func ResetEmbeddingModels() {
	embeddingModels.Range(func(k, _ interface{}) bool {
		embeddingModels.Delete(k)
		return true
	})
}

// PolicyError reports that a requested operation is disallowed by the
// engine's security or capability policy, as distinct from a runtime
// failure — the database node's vector-search path surfaces one of these
// rather than failing silently.
type PolicyError struct {
	Code    string
	Message string
}

func (e *PolicyError) Error() string {
	return e.Message
}

var vectorExtensionOnce struct {
	sync.Once
	err error
}

// LoadVectorExtension reports whether the database node's vector-search
// extension can be loaded. The embedded modernc.org/sqlite driver is pure
// Go, so it can never dlopen a native vec0 extension; this always returns
// a *PolicyError, computed once and cached for the life of the process.
func LoadVectorExtension() error {
	vectorExtensionOnce.Do(func() {
		vectorExtensionOnce.err = &PolicyError{
			Code:    "vector_extension_unavailable",
			Message: ErrVectorExtensionUnavailable.Error(),
		}
	})
	return vectorExtensionOnce.err
}
