// Package template implements the flat placeholder substitution primitive
// used by the http, file and database executors: replace literal "{key}" in
// a string with the stringified value of the input mapping's "key" field.
// The llm executor does its own replacement of the same form after
// truncating values; the condition executor does not substitute
// placeholders. This is not Go's text/template — it is a single
// non-recursive string replace pass per key, over the input's fields in Go
// map iteration order, which is not defined.
package template

import (
	"strings"

	"github.com/flowforge/engine/pkg/types"
)

// Substitute replaces every "{k}" in s with types.Stringify(input[k]), for
// every key k present in input. Keys not present in input are left
// untouched, including a literal "{k}" that doesn't match any input field.
func Substitute(s string, input map[string]interface{}) string {
	if len(input) == 0 || !strings.Contains(s, "{") {
		return s
	}
	for k, v := range input {
		s = strings.ReplaceAll(s, "{"+k+"}", types.Stringify(v))
	}
	return s
}

// SubstituteValue applies Substitute to every string leaf of v, recursing
// through maps and slices. Non-string leaves are returned unchanged.
func SubstituteValue(v interface{}, input map[string]interface{}) interface{} {
	switch x := v.(type) {
	case string:
		return Substitute(x, input)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, val := range x {
			out[k] = SubstituteValue(val, input)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, val := range x {
			out[i] = SubstituteValue(val, input)
		}
		return out
	default:
		return v
	}
}
