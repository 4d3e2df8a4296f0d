package executor

import (
	"fmt"
	"sort"

	"github.com/flowforge/engine/pkg/types"
)

// commonContentKeys is the priority order the markdown/html/json viewer
// nodes try before falling back to the longest string value present.
var commonContentKeys = []string{"content", "text", "markdown", "html", "body", "message", "output", "data"}

// detectContent picks the string the viewer renders: an explicit
// content_key (dotted paths supported) when set, else the first of
// commonContentKeys present as a string, else the longest string value in
// the input mapping, else the input itself if it is already a string.
// Returns the chosen content, the key it was found under (empty for the
// bare-string fallback), and whether anything was found.
func detectContent(input interface{}, contentKey string) (string, string, bool) {
	m, isMap := types.AsMap(input)

	if contentKey != "" {
		if isMap {
			if v, ok := types.GetPath(m, contentKey); ok {
				if s, ok := v.(string); ok {
					return s, contentKey, true
				}
			}
		}
		return "", "", false
	}

	if isMap {
		for _, k := range commonContentKeys {
			if s, ok := m[k].(string); ok {
				return s, k, true
			}
		}

		bestKey, bestVal := "", ""
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s, ok := m[k].(string); ok && len(s) > len(bestVal) {
				bestKey, bestVal = k, s
			}
		}
		if bestKey != "" {
			return bestVal, bestKey, true
		}
		return "", "", false
	}

	if s, ok := input.(string); ok {
		return s, "", true
	}
	return "", "", false
}

// contentDetectionError reports why detectContent failed: an explicitly
// requested content_key that doesn't resolve to a string enumerates the
// mapping's available keys; anything else is the generic no-content error.
func contentDetectionError(input interface{}, contentKey string) error {
	if contentKey == "" {
		return ErrNoStringContent
	}
	m, ok := types.AsMap(input)
	if !ok {
		return fmt.Errorf("%w: %q (input is not a mapping)", ErrContentKeyMissing, contentKey)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Errorf("%w: %q, available keys: %v", ErrContentKeyMissing, contentKey, keys)
}
