// Package agent implements the tool-calling loop: alternating model calls
// and tool dispatch until a stopping condition.
//
// The loop is a three-state machine. It is Running while waiting on the
// model, AwaitingTools while a dispatch cycle is in flight, and Terminated
// once a stopping condition fires. Stopping conditions, in priority order:
//
//   - the model answers without tool calls (optionally carrying a
//     configured text marker),
//   - a designated terminal tool is dispatched successfully,
//   - the iteration bound is reached, reported as ReasonMaxIterations and
//     never as a silent truncated answer.
//
// Tool handler failures are captured as error tool results and fed back to
// the model; provider failures terminate the loop and surface to the
// caller. Each cycle records one model span and one span per dispatched
// tool on the configured trace recorder.
//
// # Quick Start
//
//	registry := tool.NewRegistry()
//	registry.Register(builtin.Calculator())
//
//	loop := agent.NewLoop(caller, registry, recorder, agent.Config{
//		SystemPrompt:  "You are a helpful assistant.",
//		MaxIterations: 3,
//	})
//	result, err := loop.Run(ctx, "What is 2+3?")
package agent
