package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// sandboxEnvAllowlist names the only host environment variables propagated
// into a sandboxed subprocess: just enough for the interpreter to start up
// and resolve its own binaries/locale. Anything else set in the engine's own
// process (API keys, credentials, OPENROUTER_API_KEY, ...) never crosses
// into the child.
var sandboxEnvAllowlist = []string{"PATH", "HOME", "LANG", "LC_ALL", "TMPDIR"}

// sandboxEnv builds the curated environment for a sandboxed child from
// sandboxEnvAllowlist, looking up each name in the host's own environment.
func sandboxEnv() []string {
	env := make([]string, 0, len(sandboxEnvAllowlist))
	for _, key := range sandboxEnvAllowlist {
		if v, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+v)
		}
	}
	return env
}

// runSandboxed spawns command with args as a short-lived subprocess: the
// JSON-encoded input value is written to its stdin, its stdout is parsed as
// the JSON output value, and its stderr is captured verbatim. The child
// inherits no file descriptors beyond the three std pipes and no
// environment beyond sandboxEnvAllowlist, matching the "no inherited fds,
// no host environment" sandbox contract.
func runSandboxed(ctx context.Context, timeout time.Duration, name string, args []string, input interface{}) (output interface{}, stdout, stderr string, err error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, "", "", fmt.Errorf("marshal input: %w", err)
	}

	cmd := exec.CommandContext(cctx, name, args...)
	cmd.Env = sandboxEnv()
	cmd.Stdin = bytes.NewReader(inputJSON)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if cctx.Err() == context.DeadlineExceeded {
		return nil, stdout, stderr, fmt.Errorf("sandbox timed out after %s", timeout)
	}
	if runErr != nil {
		return nil, stdout, stderr, fmt.Errorf("sandbox exited with error: %w", runErr)
	}

	if err := json.Unmarshal(outBuf.Bytes(), &output); err != nil {
		return nil, stdout, stderr, fmt.Errorf("parse sandbox output: %w", err)
	}
	return output, stdout, stderr, nil
}
