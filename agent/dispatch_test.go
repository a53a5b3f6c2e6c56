package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/loopworks/flowkit/llm"
	"github.com/loopworks/flowkit/tool"
)

func echoRegistry() *tool.Registry {
	registry := tool.NewRegistry()
	registry.Register(tool.Definition{
		Name:   "echo",
		Schema: tool.ObjectSchema(map[string]any{"text": tool.StringProperty("")}, "text"),
	}, func(_ context.Context, args map[string]any) (any, error) {
		text, _ := tool.StringArg(args, "text")
		return text, nil
	})
	registry.Register(tool.Definition{
		Name:   "slow_echo",
		Schema: tool.ObjectSchema(map[string]any{"text": tool.StringProperty("")}, "text"),
	}, func(_ context.Context, args map[string]any) (any, error) {
		time.Sleep(10 * time.Millisecond)
		text, _ := tool.StringArg(args, "text")
		return text, nil
	})
	registry.Register(tool.Definition{
		Name:   "fail",
		Schema: tool.ObjectSchema(nil),
	}, func(_ context.Context, _ map[string]any) (any, error) {
		return nil, fmt.Errorf("handler exploded")
	})
	return registry
}

func invocation(id, name, args string) llm.ToolInvocation {
	return llm.ToolInvocation{ID: id, Name: name, Arguments: json.RawMessage(args)}
}

func TestDispatchOrderAndCorrelation(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		d := Dispatcher{Registry: echoRegistry(), Parallel: parallel}

		invocations := []llm.ToolInvocation{
			invocation("call_1", "slow_echo", `{"text": "first"}`),
			invocation("call_2", "echo", `{"text": "second"}`),
			invocation("call_3", "echo", `{"text": "third"}`),
		}
		executions := d.Dispatch(context.Background(), invocations)

		if len(executions) != len(invocations) {
			t.Fatalf("parallel=%v: executions = %d, want %d", parallel, len(executions), len(invocations))
		}
		for i, exec := range executions {
			if exec.Invocation.ID != invocations[i].ID {
				t.Errorf("parallel=%v: execution %d is %s, want %s", parallel, i, exec.Invocation.ID, invocations[i].ID)
			}
			if exec.Result.InvocationID != invocations[i].ID {
				t.Errorf("parallel=%v: result %d correlates %s, want %s", parallel, i, exec.Result.InvocationID, invocations[i].ID)
			}
		}
		if executions[0].Result.Content != "first" || executions[2].Result.Content != "third" {
			t.Errorf("parallel=%v: contents out of order: %q, %q", parallel, executions[0].Result.Content, executions[2].Result.Content)
		}
	}
}

func TestDispatchFailureStaysLocal(t *testing.T) {
	d := Dispatcher{Registry: echoRegistry()}

	executions := d.Dispatch(context.Background(), []llm.ToolInvocation{
		invocation("call_1", "fail", `{}`),
		invocation("call_2", "missing_tool", `{}`),
		invocation("call_3", "echo", `{"text": "ok"}`),
	})

	if !executions[0].Result.IsError {
		t.Error("failing handler not marked as error")
	}
	if !executions[1].Result.IsError {
		t.Error("unknown tool not marked as error")
	}
	if executions[2].Result.IsError {
		t.Errorf("sibling failed too: %q", executions[2].Result.Content)
	}
	if executions[2].Result.Content != "ok" {
		t.Errorf("sibling content = %q, want %q", executions[2].Result.Content, "ok")
	}
}

func TestDispatchInvalidArguments(t *testing.T) {
	d := Dispatcher{Registry: echoRegistry()}

	executions := d.Dispatch(context.Background(), []llm.ToolInvocation{
		invocation("call_1", "echo", `{"wrong": true}`),
	})
	if !executions[0].Result.IsError {
		t.Fatal("schema violation not marked as error")
	}
}

func TestDispatchTimings(t *testing.T) {
	d := Dispatcher{Registry: echoRegistry()}

	executions := d.Dispatch(context.Background(), []llm.ToolInvocation{
		invocation("call_1", "slow_echo", `{"text": "x"}`),
	})
	exec := executions[0]
	if !exec.EndTime.After(exec.StartTime) {
		t.Errorf("end %v not after start %v", exec.EndTime, exec.StartTime)
	}
}
