package agent

import (
	"github.com/loopworks/flowkit/llm"
)

// State is the loop's position in its state machine.
type State string

const (
	StateRunning       State = "running"
	StateAwaitingTools State = "awaiting_tools"
	StateTerminated    State = "terminated"
)

// TerminationReason says why a loop stopped.
type TerminationReason string

const (
	// ReasonAnswer: the model replied without tool calls.
	ReasonAnswer TerminationReason = "answer"
	// ReasonTerminalTool: the designated terminal tool was dispatched.
	ReasonTerminalTool TerminationReason = "terminal_tool"
	// ReasonTextMarker: the model's answer carried the configured marker.
	ReasonTextMarker TerminationReason = "text_marker"
	// ReasonMaxIterations: the iteration bound forced termination.
	ReasonMaxIterations TerminationReason = "max_iterations"
)

// Result is the outcome of one loop execution.
type Result struct {
	// Output is the final answer. Empty when the iteration bound fired.
	Output string
	// Reason records which stopping condition terminated the loop.
	Reason TerminationReason
	// Iterations counts completed model-call cycles.
	Iterations int
	// Conversation is the full message history of the execution.
	Conversation llm.Conversation
}

// Exceeded reports whether the loop hit its iteration bound.
func (r *Result) Exceeded() bool {
	return r.Reason == ReasonMaxIterations
}
