package executor

import (
	"strings"
	"testing"

	"github.com/flowforge/engine/pkg/types"
)

func TestMarkdownExecutor_RendersDetectedContent(t *testing.T) {
	node := types.Node{}
	input := map[string]interface{}{"content": "# Title\n\nbody text"}

	outcome := (&MarkdownExecutor{}).Execute(nil, node, input)
	if outcome.IsError() {
		t.Fatalf("unexpected error: %v", outcome.Error)
	}
	out, _ := types.AsMap(outcome.Output)
	if out["content_key"] != "content" {
		t.Errorf("content_key = %v, want content", out["content_key"])
	}
	rendered, _ := out["rendered"].(string)
	if !strings.Contains(rendered, "<h1") {
		t.Errorf("rendered = %q, want an <h1> heading", rendered)
	}
}

func TestHTMLExecutor_SanitizesAndExtractsText(t *testing.T) {
	node := types.Node{}
	input := map[string]interface{}{"html": "<p>hello <script>alert(1)</script>world</p>"}

	outcome := (&HTMLExecutor{}).Execute(nil, node, input)
	if outcome.IsError() {
		t.Fatalf("unexpected error: %v", outcome.Error)
	}
	out, _ := types.AsMap(outcome.Output)
	content, _ := out["content"].(string)
	if strings.Contains(content, "script") {
		t.Errorf("content = %q, sanitizer left a <script> tag", content)
	}
	text, _ := out["text"].(string)
	if !strings.Contains(text, "hello") || !strings.Contains(text, "world") {
		t.Errorf("text = %q, want hello/world", text)
	}
}

func TestJSONExecutor_DetectsAndPrettyPrints(t *testing.T) {
	node := types.Node{}
	input := map[string]interface{}{"data": `{"a":1,"b":2}`}

	outcome := (&JSONExecutor{}).Execute(nil, node, input)
	if outcome.IsError() {
		t.Fatalf("unexpected error: %v", outcome.Error)
	}
	out, _ := types.AsMap(outcome.Output)
	if out["content_key"] != "data" {
		t.Errorf("content_key = %v, want data", out["content_key"])
	}
	parsed, _ := types.AsMap(out["parsed"])
	if parsed["a"] != float64(1) {
		t.Errorf("parsed = %#v, want a=1", parsed)
	}
}

func TestJSONExecutor_ExplicitContentKeyMissingIsError(t *testing.T) {
	node := types.Node{Config: map[string]interface{}{"content_key": "absent"}}
	input := map[string]interface{}{"data": `{"a":1}`}

	outcome := (&JSONExecutor{}).Execute(nil, node, input)
	if !outcome.IsError() {
		t.Fatalf("expected error for missing explicit content_key")
	}
	if !strings.Contains(*outcome.Error, "available keys") {
		t.Errorf("error = %q, want it to enumerate available keys", *outcome.Error)
	}
}

func TestDetectContent_HeuristicFallback(t *testing.T) {
	content, key, ok := detectContent(map[string]interface{}{"id": 1, "note": "the longest string here"}, "")
	if !ok {
		t.Fatalf("detectContent() ok = false")
	}
	if key != "note" || content != "the longest string here" {
		t.Errorf("detectContent() = (%q, %q), want (note, the longest string here)", content, key)
	}
}
