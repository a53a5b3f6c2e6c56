// Package trace records agent executions as flows of timed spans and ships
// them to an observability sink.
//
// A flow is one end-to-end execution (one agent conversation, one evaluated
// datapoint). Each model call and each tool dispatch inside it becomes a
// span. Recorders must accept concurrent appends: evaluation workers share
// one recorder.
package trace

import (
	"context"
	"time"
)

// Status is the terminal state of a flow.
type Status string

const (
	StatusComplete   Status = "complete"
	StatusIncomplete Status = "incomplete"
	StatusError      Status = "error"
)

// SpanKind identifies what a span measured.
type SpanKind string

const (
	SpanModel SpanKind = "model"
	SpanTool  SpanKind = "tool"
)

// Span is one timed operation inside a flow.
type Span struct {
	ID        string         `json:"id"`
	Kind      SpanKind       `json:"kind"`
	Name      string         `json:"name"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`
	Inputs    map[string]any `json:"inputs,omitempty"`
	Output    string         `json:"output,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Flow is one recorded execution.
type Flow struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`
	Inputs    map[string]any `json:"inputs,omitempty"`
	Output    string         `json:"output,omitempty"`
	Status    Status         `json:"status"`
	Spans     []Span         `json:"spans,omitempty"`
}

// Recorder is the trace sink. Implementations must tolerate concurrent
// calls; callers treat recording failures as non-fatal.
type Recorder interface {
	// StartFlow opens a flow and returns its id.
	StartFlow(ctx context.Context, name string, inputs map[string]any) (string, error)
	// RecordSpan appends a span to an open flow.
	RecordSpan(ctx context.Context, flowID string, span Span) error
	// EndFlow closes a flow with its final output and status.
	EndFlow(ctx context.Context, flowID string, output string, status Status) error
}
