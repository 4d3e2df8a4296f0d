package executor

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/flowforge/engine/pkg/types"
)

// MarkdownExecutor is a viewer node: it detects the markdown text in its
// input and renders it to HTML, alongside the raw content and the key it
// was found under.
type MarkdownExecutor struct{}

func (e *MarkdownExecutor) NodeType() types.NodeType { return types.NodeTypeMarkdown }

func (e *MarkdownExecutor) Execute(_ ExecutionContext, node types.Node, input interface{}) types.NodeOutcome {
	contentKey, _ := types.GetString(node.Config, "content_key")
	content, key, ok := detectContent(input, contentKey)
	if !ok {
		return types.Failure(contentDetectionError(input, contentKey), "", 0)
	}

	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.ToHTML([]byte(content), p, renderer)

	return types.Success(map[string]interface{}{
		"content":      content,
		"rendered":     string(rendered),
		"content_key":  key,
	}, 0)
}
