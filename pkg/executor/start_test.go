package executor

import (
	"testing"

	"github.com/flowforge/engine/pkg/types"
)

func TestStartExecutor_IgnoresInputEmitsGreeting(t *testing.T) {
	ctx := newTestContext(nil)
	outcome := (&StartExecutor{}).Execute(ctx, types.Node{}, map[string]interface{}{"anything": "here"})
	if outcome.IsError() {
		t.Fatalf("unexpected error: %v", outcome.Error)
	}
	out, _ := types.AsMap(outcome.Output)
	if out["message"] != "Workflow started" {
		t.Errorf("message = %#v, want \"Workflow started\"", out["message"])
	}
}

func TestEndExecutor_PassesInputThrough(t *testing.T) {
	ctx := newTestContext(nil)
	input := map[string]interface{}{"n": 7.0}
	outcome := (&EndExecutor{}).Execute(ctx, types.Node{}, input)
	if outcome.IsError() {
		t.Fatalf("unexpected error: %v", outcome.Error)
	}
	out, _ := types.AsMap(outcome.Output)
	if out["n"] != 7.0 {
		t.Errorf("output = %#v, want input unchanged", outcome.Output)
	}
}
