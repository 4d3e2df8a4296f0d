package executor

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/flowforge/engine/pkg/types"
)

// JSONExecutor is a viewer node: it detects the JSON-bearing string (or,
// with an explicit content_key, a dotted gjson path into the input
// itself) and presents a parsed, pretty-printed view of it.
type JSONExecutor struct{}

func (e *JSONExecutor) NodeType() types.NodeType { return types.NodeTypeJSON }

func (e *JSONExecutor) Execute(_ ExecutionContext, node types.Node, input interface{}) types.NodeOutcome {
	contentKey, hasKey := types.GetString(node.Config, "content_key")

	if hasKey && contentKey != "" {
		raw, err := json.Marshal(input)
		if err != nil {
			return types.Failure(ErrNoStringContent, "", 0)
		}
		result := gjson.GetBytes(raw, contentKey)
		if !result.Exists() {
			return types.Failure(contentDetectionError(input, contentKey), "", 0)
		}
		return types.Success(jsonViewerOutput(result.Raw, contentKey), 0)
	}

	content, key, ok := detectContent(input, "")
	if !ok {
		return types.Failure(contentDetectionError(input, ""), "", 0)
	}
	if !gjson.Valid(content) {
		return types.Failure(ErrNoStringContent, "", 0)
	}
	return types.Success(jsonViewerOutput(content, key), 0)
}

func jsonViewerOutput(raw, key string) map[string]interface{} {
	formatted := string(pretty.Pretty([]byte(raw)))
	var parsed interface{}
	_ = json.Unmarshal([]byte(raw), &parsed)
	return map[string]interface{}{
		"content":     raw,
		"pretty":      formatted,
		"parsed":      parsed,
		"content_key": key,
	}
}
