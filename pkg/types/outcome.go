package types

// Status is the terminal state of a node's execution.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// NodeOutcome is the uniform record every executor produces.
type NodeOutcome struct {
	Status         Status      `json:"status"`
	Output         interface{} `json:"output"`
	Stdout         string      `json:"stdout,omitempty"`
	Stderr         string      `json:"stderr,omitempty"`
	ExecutionTime  float64     `json:"execution_time"`
	Error          *string     `json:"error"`
	EndLoopNodeID  string      `json:"endloop_node_id,omitempty"`
}

// Success builds a successful outcome with the given output and elapsed time.
func Success(output interface{}, elapsedSeconds float64) NodeOutcome {
	return NodeOutcome{
		Status:        StatusSuccess,
		Output:        output,
		ExecutionTime: elapsedSeconds,
	}
}

// Failure builds an error outcome. stderr carries the detailed message,
// while Error carries the one-line summary surfaced to the client.
func Failure(err error, stderr string, elapsedSeconds float64) NodeOutcome {
	msg := err.Error()
	return NodeOutcome{
		Status:        StatusError,
		Output:        nil,
		Stderr:        stderr,
		ExecutionTime: elapsedSeconds,
		Error:         &msg,
	}
}

// IsError reports whether the outcome represents a node failure.
func (o NodeOutcome) IsError() bool {
	return o.Status == StatusError
}
