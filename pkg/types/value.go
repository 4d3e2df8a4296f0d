package types

import (
	"fmt"
	"strings"
)

// Value accessor helpers over the free-form config/value maps that flow
// through the engine. Node config is a free-form map rather than a closed
// struct per node type, so these helpers read typed fields out of it with
// an ok=false fallback instead of a panic or zero-value ambiguity.

// GetString reads a string field from a config map, returning ok=false if
// absent or not a string.
func GetString(cfg map[string]interface{}, key string) (string, bool) {
	if cfg == nil {
		return "", false
	}
	v, ok := cfg[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetStringDefault reads a string field, falling back to def when absent.
func GetStringDefault(cfg map[string]interface{}, key, def string) string {
	if s, ok := GetString(cfg, key); ok {
		return s
	}
	return def
}

// GetBool reads a bool field, falling back to def when absent or of the
// wrong type.
func GetBool(cfg map[string]interface{}, key string, def bool) bool {
	if cfg == nil {
		return def
	}
	v, ok := cfg[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// GetInt reads an integer field (JSON numbers decode as float64), falling
// back to def when absent or of the wrong type.
func GetInt(cfg map[string]interface{}, key string, def int) int {
	if cfg == nil {
		return def
	}
	v, ok := cfg[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return def
	}
}

// GetFloat reads a float field, falling back to def when absent or of the
// wrong type.
func GetFloat(cfg map[string]interface{}, key string, def float64) float64 {
	if cfg == nil {
		return def
	}
	v, ok := cfg[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return def
	}
}

// GetMap reads a nested mapping field.
func GetMap(cfg map[string]interface{}, key string) (map[string]interface{}, bool) {
	if cfg == nil {
		return nil, false
	}
	v, ok := cfg[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]interface{})
	return m, ok
}

// GetSlice reads a sequence field.
func GetSlice(cfg map[string]interface{}, key string) ([]interface{}, bool) {
	if cfg == nil {
		return nil, false
	}
	v, ok := cfg[key]
	if !ok {
		return nil, false
	}
	s, ok := v.([]interface{})
	return s, ok
}

// AsMap type-asserts a runtime Value to a mapping, the common case for
// node inputs/outputs.
func AsMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

// AsSlice type-asserts a runtime Value to a sequence.
func AsSlice(v interface{}) ([]interface{}, bool) {
	s, ok := v.([]interface{})
	return s, ok
}

// Stringify renders any runtime Value as a display string, used by
// placeholder substitution and LLM prompt templating.
func Stringify(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// GetPath resolves a dotted path (e.g. "a.b.c") against a mapping value,
// descending through nested maps one segment at a time. Returns ok=false if
// any segment is missing or the value at that point isn't a mapping.
func GetPath(v interface{}, path string) (interface{}, bool) {
	segments := strings.Split(path, ".")
	cur := v
	for _, seg := range segments {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// CloneMap returns a shallow copy of a mapping, used whenever an executor
// must not mutate its input observably.
func CloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
