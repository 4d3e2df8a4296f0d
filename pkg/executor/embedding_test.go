package executor

import (
	"testing"

	"github.com/flowforge/engine/pkg/state"
	"github.com/flowforge/engine/pkg/types"
)

func TestEmbeddingExecutor_Deterministic(t *testing.T) {
	state.ResetEmbeddingModels()
	node := types.Node{Config: map[string]interface{}{
		"input_field":  "text",
		"output_field": "vec",
		"model":        "test-model",
	}}
	input := map[string]interface{}{"text": "hello world"}

	first := (&EmbeddingExecutor{}).Execute(nil, node, input)
	second := (&EmbeddingExecutor{}).Execute(nil, node, input)
	if first.IsError() || second.IsError() {
		t.Fatalf("unexpected error: %v / %v", first.Error, second.Error)
	}

	out1, _ := types.AsMap(first.Output)
	out2, _ := types.AsMap(second.Output)

	arr1, _ := types.AsSlice(out1["vec_array"])
	arr2, _ := types.AsSlice(out2["vec_array"])
	if len(arr1) != len(arr2) || len(arr1) != defaultEmbeddingDim {
		t.Fatalf("dim mismatch: %d vs %d, want %d", len(arr1), len(arr2), defaultEmbeddingDim)
	}
	for i := range arr1 {
		if arr1[i] != arr2[i] {
			t.Fatalf("embedding not deterministic at index %d: %v vs %v", i, arr1[i], arr2[i])
		}
	}

	if out1["vec_dim"] != defaultEmbeddingDim {
		t.Errorf("vec_dim = %v, want %d", out1["vec_dim"], defaultEmbeddingDim)
	}
	if out1["text"] != "hello world" {
		t.Errorf("input mapping not preserved: %#v", out1)
	}
}

func TestEmbeddingExecutor_FirstStringFallback(t *testing.T) {
	state.ResetEmbeddingModels()
	node := types.Node{Config: map[string]interface{}{"output_field": "vec"}}
	input := map[string]interface{}{"count": 3, "description": "some text"}

	outcome := (&EmbeddingExecutor{}).Execute(nil, node, input)
	if outcome.IsError() {
		t.Fatalf("unexpected error: %v", outcome.Error)
	}
}

func TestEmbeddingExecutor_NoStringContentIsError(t *testing.T) {
	state.ResetEmbeddingModels()
	node := types.Node{Config: map[string]interface{}{"output_field": "vec"}}

	outcome := (&EmbeddingExecutor{}).Execute(nil, node, map[string]interface{}{"count": 3})
	if !outcome.IsError() {
		t.Fatalf("expected error when no string content is present")
	}
}
