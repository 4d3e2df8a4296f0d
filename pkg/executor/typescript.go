package executor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/flowforge/engine/pkg/types"
)

// typescriptHarness reads the JSON input from stdin, calls the user's
// run(input), and writes the JSON result to stdout. deno runs .ts files
// directly with no project config, no network, and no filesystem access
// beyond what --allow-* explicitly grants (none, here).
const typescriptHarness = `
%s

const _raw = await new Response(Deno.stdin.readable).text();
const _input = JSON.parse(_raw);
const _result = await run(_input);
console.log(JSON.stringify(_result));
`

// typescriptHardTimeout is the wall-clock ceiling mandated regardless of
// the configured subprocess timeout.
const typescriptHardTimeout = 5 * time.Second

// TypeScriptExecutor runs untrusted user code defining run(input) in an
// out-of-process deno subprocess with no --allow-* permissions granted and
// no host environment variables beyond sandboxEnvAllowlist (see
// subprocess.go).
type TypeScriptExecutor struct{}

func (e *TypeScriptExecutor) NodeType() types.NodeType { return types.NodeTypeTypeScript }

func (e *TypeScriptExecutor) Execute(ctx ExecutionContext, node types.Node, input interface{}) types.NodeOutcome {
	script := fmt.Sprintf(typescriptHarness, node.Code)

	tmp, err := os.CreateTemp("", "workflow-ts-*.ts")
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrScriptFailed, err), "", 0)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(script); err != nil {
		tmp.Close()
		return types.Failure(fmt.Errorf("%w: %v", ErrScriptFailed, err), "", 0)
	}
	tmp.Close()

	timeout := typescriptHardTimeout
	if configured := ctx.Config().SubprocessTimeout; configured > 0 && configured < timeout {
		timeout = configured
	}

	args := []string{"run", "--quiet", "--no-prompt", tmp.Name()}
	output, stdout, stderr, err := runSandboxed(context.Background(), timeout, "deno", args, input)
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrScriptFailed, err), stderr, 0)
	}
	outcome := types.Success(output, 0)
	outcome.Stdout = stdout
	outcome.Stderr = stderr
	return outcome
}
