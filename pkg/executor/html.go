package executor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/flowforge/engine/pkg/types"
)

// HTMLExecutor is a viewer node: it detects the HTML in its input,
// sanitizes it against a user-generated-content policy, and extracts its
// plain-text rendering alongside the sanitized markup.
type HTMLExecutor struct{}

func (e *HTMLExecutor) NodeType() types.NodeType { return types.NodeTypeHTML }

func (e *HTMLExecutor) Execute(_ ExecutionContext, node types.Node, input interface{}) types.NodeOutcome {
	contentKey, _ := types.GetString(node.Config, "content_key")
	content, key, ok := detectContent(input, contentKey)
	if !ok {
		return types.Failure(contentDetectionError(input, contentKey), "", 0)
	}

	sanitized := bluemonday.UGCPolicy().Sanitize(content)

	text := sanitized
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(sanitized)); err == nil {
		text = strings.TrimSpace(doc.Text())
	}

	return types.Success(map[string]interface{}{
		"content":     sanitized,
		"text":        text,
		"content_key": key,
	}, 0)
}
