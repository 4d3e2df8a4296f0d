package executor

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/flowforge/engine/pkg/types"
)

// pythonHarness wraps a node's user code so that calling run(input) against
// the JSON value read from stdin and writing its JSON return value to
// stdout is the only thing the child process does. -I runs the interpreter
// isolated from the user's site-packages and environment-derived PYTHONPATH.
const pythonHarness = `
import json, sys

%s

if __name__ == "__main__":
    _input = json.loads(sys.stdin.read())
    _result = run(_input)
    sys.stdout.write(json.dumps(_result))
`

// PythonExecutor runs untrusted user code defining run(input) in an
// out-of-process python3 interpreter. The child gets no host environment
// variables beyond sandboxEnvAllowlist (see subprocess.go) and -I keeps it
// off the user's site-packages and any PYTHONPATH that did leak through.
type PythonExecutor struct{}

func (e *PythonExecutor) NodeType() types.NodeType { return types.NodeTypePython }

func (e *PythonExecutor) Execute(ctx ExecutionContext, node types.Node, input interface{}) types.NodeOutcome {
	script := fmt.Sprintf(pythonHarness, node.Code)

	tmp, err := os.CreateTemp("", "workflow-python-*.py")
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrScriptFailed, err), "", 0)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(script); err != nil {
		tmp.Close()
		return types.Failure(fmt.Errorf("%w: %v", ErrScriptFailed, err), "", 0)
	}
	tmp.Close()

	timeout := ctx.Config().SubprocessTimeout

	output, stdout, stderr, err := runSandboxed(context.Background(), timeout, pythonBinary(), []string{"-I", tmp.Name()}, input)
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrScriptFailed, err), stderr, 0)
	}
	outcome := types.Success(output, 0)
	outcome.Stdout = stdout
	outcome.Stderr = stderr
	return outcome
}

// pythonBinary resolves the python3 interpreter on PATH, falling back to
// "python" for environments without a python3 alias.
func pythonBinary() string {
	if _, err := exec.LookPath("python3"); err == nil {
		return "python3"
	}
	return "python"
}
