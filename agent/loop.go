package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/loopworks/flowkit/llm"
	"github.com/loopworks/flowkit/log"
	"github.com/loopworks/flowkit/tool"
	"github.com/loopworks/flowkit/trace"
)

// DefaultMaxIterations bounds the loop when Config.MaxIterations is unset.
const DefaultMaxIterations = 10

// Termination configures the loop's stopping conditions beyond the
// always-on "plain answer" condition and the iteration bound.
type Termination struct {
	// TerminalTool names the tool whose successful dispatch ends the loop,
	// with its result as the final output. Empty disables the condition.
	TerminalTool string
	// TextMarker ends the loop when a plain answer contains the marker
	// (e.g. "FINISHED"); the marker is stripped from the output. Empty
	// disables the condition.
	TextMarker string
}

// Config holds per-loop configuration.
type Config struct {
	// SystemPrompt seeds the conversation when non-empty.
	SystemPrompt string
	// MaxIterations bounds model-call cycles. 0 means DefaultMaxIterations.
	MaxIterations int
	// Termination selects the stopping strategy.
	Termination Termination
	// Hyperparameters are passed through to every model call.
	Hyperparameters llm.Hyperparameters
	// DispatchParallel runs sibling tool calls concurrently.
	DispatchParallel bool
	// FlowName names recorded flows. Defaults to "agent".
	FlowName string
}

// Loop drives repeated model-call / tool-dispatch cycles over one
// conversation. A Loop is stateless across Run calls and safe for
// concurrent use; each Run owns its conversation.
type Loop struct {
	caller     llm.Caller
	dispatcher Dispatcher
	recorder   trace.Recorder
	config     Config
}

// NewLoop creates a Loop. A nil recorder disables tracing.
func NewLoop(caller llm.Caller, registry *tool.Registry, recorder trace.Recorder, config Config) *Loop {
	if config.MaxIterations <= 0 {
		config.MaxIterations = DefaultMaxIterations
	}
	if config.FlowName == "" {
		config.FlowName = "agent"
	}
	if recorder == nil {
		recorder = trace.NopRecorder{}
	}
	return &Loop{
		caller:     caller,
		dispatcher: Dispatcher{Registry: registry, Parallel: config.DispatchParallel},
		recorder:   recorder,
		config:     config,
	}
}

// Run executes the loop for one user input until a stopping condition.
func (l *Loop) Run(ctx context.Context, input string) (*Result, error) {
	conversation := llm.Conversation{}
	if l.config.SystemPrompt != "" {
		conversation = conversation.Append(llm.SystemMessage(l.config.SystemPrompt))
	}
	conversation = conversation.Append(llm.UserMessage(input))

	flowID, err := l.recorder.StartFlow(ctx, l.config.FlowName, map[string]any{"input": input})
	if err != nil {
		// Tracing is best-effort; a sink failure never blocks the loop.
		log.Warnf("start flow %s: %v", l.config.FlowName, err)
	}

	tools := l.dispatcher.Registry.Definitions()
	state := StateRunning

	for iteration := 1; iteration <= l.config.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			l.endFlow(ctx, flowID, "", trace.StatusIncomplete)
			return nil, err
		}

		response, err := l.callModel(ctx, flowID, conversation, tools)
		if err != nil {
			l.endFlow(ctx, flowID, "", trace.StatusError)
			return nil, fmt.Errorf("model call (iteration %d): %w", iteration, err)
		}
		conversation = conversation.Append(response.AssistantMessage())

		// Plain answer: no tool work requested.
		if !response.HasToolInvocations() {
			if state, err = advance(state, StateTerminated); err != nil {
				return nil, err
			}
			output, reason := l.resolveAnswer(response.Content)
			l.endFlow(ctx, flowID, output, trace.StatusComplete)
			return &Result{
				Output:       output,
				Reason:       reason,
				Iterations:   iteration,
				Conversation: conversation,
			}, nil
		}

		if state, err = advance(state, StateAwaitingTools); err != nil {
			return nil, err
		}
		executions := l.dispatcher.Dispatch(ctx, response.ToolInvocations)
		for _, exec := range executions {
			l.recordToolSpan(ctx, flowID, exec)
			conversation = conversation.Append(llm.ToolResultMessage(exec.Result))
		}
		if state, err = advance(state, StateRunning); err != nil {
			return nil, err
		}

		if output, ok := l.terminalResult(executions); ok {
			if _, err = advance(state, StateTerminated); err != nil {
				return nil, err
			}
			l.endFlow(ctx, flowID, output, trace.StatusComplete)
			return &Result{
				Output:       output,
				Reason:       ReasonTerminalTool,
				Iterations:   iteration,
				Conversation: conversation,
			}, nil
		}
	}

	// Iteration bound reached: forced termination, reported distinctly.
	l.endFlow(ctx, flowID, "", trace.StatusIncomplete)
	log.Warnf("loop %s exceeded %d iterations", l.config.FlowName, l.config.MaxIterations)
	return &Result{
		Reason:       ReasonMaxIterations,
		Iterations:   l.config.MaxIterations,
		Conversation: conversation,
	}, nil
}

// callModel performs one provider request and records its span.
func (l *Loop) callModel(ctx context.Context, flowID string, conversation llm.Conversation, tools []llm.ToolDefinition) (*llm.Response, error) {
	start := time.Now()
	response, err := l.caller.Call(ctx, conversation, tools, l.config.Hyperparameters)
	end := time.Now()

	span := trace.Span{
		Kind:      trace.SpanModel,
		Name:      "model_call",
		StartTime: start,
		EndTime:   end,
		Inputs:    map[string]any{"messages": len(conversation), "model": l.config.Hyperparameters.Model},
	}
	if err != nil {
		span.Error = err.Error()
	} else {
		span.Output = response.Content
	}
	if recErr := l.recorder.RecordSpan(ctx, flowID, span); recErr != nil {
		log.Warnf("record model span: %v", recErr)
	}
	return response, err
}

func (l *Loop) recordToolSpan(ctx context.Context, flowID string, exec ToolExecution) {
	span := trace.Span{
		Kind:      trace.SpanTool,
		Name:      exec.Invocation.Name,
		StartTime: exec.StartTime,
		EndTime:   exec.EndTime,
		Inputs:    map[string]any{"call_id": exec.Invocation.ID, "arguments": string(exec.Invocation.Arguments)},
		Output:    exec.Result.Content,
	}
	if exec.Result.IsError {
		span.Error = exec.Result.Content
	}
	if err := l.recorder.RecordSpan(ctx, flowID, span); err != nil {
		log.Warnf("record tool span %s: %v", exec.Invocation.Name, err)
	}
}

// resolveAnswer applies the text-marker strategy to a plain answer.
func (l *Loop) resolveAnswer(content string) (string, TerminationReason) {
	marker := l.config.Termination.TextMarker
	if marker != "" && strings.Contains(content, marker) {
		return strings.TrimSpace(strings.ReplaceAll(content, marker, "")), ReasonTextMarker
	}
	return content, ReasonAnswer
}

// terminalResult returns the output of a successfully dispatched terminal
// tool. An errored terminal call feeds back into the conversation like any
// other failure, so the model can correct its arguments.
func (l *Loop) terminalResult(executions []ToolExecution) (string, bool) {
	name := l.config.Termination.TerminalTool
	if name == "" {
		return "", false
	}
	for _, exec := range executions {
		if exec.Invocation.Name == name && !exec.Result.IsError {
			return exec.Result.Content, true
		}
	}
	return "", false
}

func (l *Loop) endFlow(ctx context.Context, flowID, output string, status trace.Status) {
	if err := l.recorder.EndFlow(ctx, flowID, output, status); err != nil {
		log.Warnf("end flow %s: %v", flowID, err)
	}
}
