package executor

import (
	"os/exec"
	"testing"

	"github.com/flowforge/engine/pkg/types"
)

func requireDeno(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("deno"); err != nil {
		t.Skip("deno not found on PATH")
	}
}

func TestTypeScriptExecutor_RunsUserFunction(t *testing.T) {
	requireDeno(t)
	ctx := newTestContext(nil)
	node := types.Node{Code: "function run(x) { return { doubled: x.n * 2 }; }"}

	outcome := (&TypeScriptExecutor{}).Execute(ctx, node, map[string]interface{}{"n": 21.0})
	if outcome.IsError() {
		t.Fatalf("unexpected error: %v", outcome.Error)
	}
	out, _ := types.AsMap(outcome.Output)
	if out["doubled"] != 42.0 {
		t.Errorf("doubled = %#v, want 42", out["doubled"])
	}
}

func TestTypeScriptExecutor_ThrownErrorIsError(t *testing.T) {
	requireDeno(t)
	ctx := newTestContext(nil)
	node := types.Node{Code: "function run(x) { throw new Error('boom'); }"}

	outcome := (&TypeScriptExecutor{}).Execute(ctx, node, map[string]interface{}{})
	if !outcome.IsError() {
		t.Fatal("expected an error from a thrown exception")
	}
}

func TestTypeScriptExecutor_HostEnvNotAccessibleToChild(t *testing.T) {
	requireDeno(t)
	t.Setenv("WORKFLOW_TEST_SECRET", "super-secret-value")
	ctx := newTestContext(nil)
	node := types.Node{Code: "function run(x) { return { secret: Deno.env.get('WORKFLOW_TEST_SECRET') }; }"}

	outcome := (&TypeScriptExecutor{}).Execute(ctx, node, map[string]interface{}{})
	if !outcome.IsError() {
		t.Fatal("expected Deno.env.get to fail without --allow-env, proving the child cannot read the host environment")
	}
}

func TestTypeScriptExecutor_HardTimeoutCapsConfiguredTimeout(t *testing.T) {
	requireDeno(t)
	cfg := newTestContext(nil).cfg.Clone()
	cfg.SubprocessTimeout = 60_000_000_000 // 60s, far above the 5s hard cap
	ctx := newTestContext(cfg)
	node := types.Node{Code: "function run(x) { while (true) {} }"}

	outcome := (&TypeScriptExecutor{}).Execute(ctx, node, map[string]interface{}{})
	if !outcome.IsError() {
		t.Fatal("expected the hard 5s timeout to trigger")
	}
}
