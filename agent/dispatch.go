package agent

import (
	"context"
	"sync"
	"time"

	"github.com/loopworks/flowkit/llm"
	"github.com/loopworks/flowkit/tool"
)

// ToolExecution is one dispatched tool invocation with its timings.
type ToolExecution struct {
	Invocation llm.ToolInvocation
	Result     llm.ToolResult
	StartTime  time.Time
	EndTime    time.Time
}

// Dispatcher executes the tool invocations of one model response against a
// registry, producing exactly one result per invocation in input order.
//
// A failing handler, an unknown tool name, or invalid arguments become an
// error-marked result rather than aborting the batch, so one bad call never
// takes down its siblings or the conversation.
type Dispatcher struct {
	Registry *tool.Registry
	// Parallel dispatches sibling invocations concurrently. Results are
	// still assembled in invocation order.
	Parallel bool
}

// Dispatch runs all invocations and returns their executions in input order.
func (d *Dispatcher) Dispatch(ctx context.Context, invocations []llm.ToolInvocation) []ToolExecution {
	if d.Parallel && len(invocations) > 1 {
		return d.dispatchParallel(ctx, invocations)
	}
	executions := make([]ToolExecution, len(invocations))
	for i, inv := range invocations {
		executions[i] = d.dispatchOne(ctx, inv)
	}
	return executions
}

func (d *Dispatcher) dispatchParallel(ctx context.Context, invocations []llm.ToolInvocation) []ToolExecution {
	executions := make([]ToolExecution, len(invocations))
	var wg sync.WaitGroup
	for i, inv := range invocations {
		wg.Add(1)
		go func(idx int, inv llm.ToolInvocation) {
			defer wg.Done()
			executions[idx] = d.dispatchOne(ctx, inv)
		}(i, inv)
	}
	wg.Wait()
	return executions
}

func (d *Dispatcher) dispatchOne(ctx context.Context, inv llm.ToolInvocation) ToolExecution {
	start := time.Now()
	content, err := d.Registry.Invoke(ctx, inv.Name, inv.Arguments)

	result := llm.ToolResult{InvocationID: inv.ID, Content: content}
	if err != nil {
		result.Content = err.Error()
		result.IsError = true
	}
	return ToolExecution{
		Invocation: inv,
		Result:     result,
		StartTime:  start,
		EndTime:    time.Now(),
	}
}
