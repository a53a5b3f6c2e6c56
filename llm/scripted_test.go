package llm

import (
	"context"
	"errors"
	"testing"
)

func TestScriptedCallerReplaysInOrder(t *testing.T) {
	caller := NewScriptedCaller(
		TextResponse("one"),
		TextResponse("two"),
	)

	params := Hyperparameters{Model: "test-model"}
	first, err := caller.Call(context.Background(), nil, nil, params)
	if err != nil {
		t.Fatalf("first Call: %v", err)
	}
	if first.Content != "one" {
		t.Errorf("first content = %q, want %q", first.Content, "one")
	}
	if first.Model != "test-model" {
		t.Errorf("first model = %q, want %q", first.Model, "test-model")
	}

	second, err := caller.Call(context.Background(), nil, nil, params)
	if err != nil {
		t.Fatalf("second Call: %v", err)
	}
	if second.Content != "two" {
		t.Errorf("second content = %q, want %q", second.Content, "two")
	}
	if caller.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", caller.Calls())
	}
}

func TestScriptedCallerExhaustion(t *testing.T) {
	caller := NewScriptedCaller(TextResponse("only"))

	if _, err := caller.Call(context.Background(), nil, nil, Hyperparameters{}); err != nil {
		t.Fatalf("Call: %v", err)
	}
	_, err := caller.Call(context.Background(), nil, nil, Hyperparameters{})
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("exhaustion error = %v, want ProviderError", err)
	}
	if pe.Provider != "scripted" {
		t.Errorf("provider = %q, want scripted", pe.Provider)
	}
}

func TestScriptedCallerFailAt(t *testing.T) {
	caller := NewScriptedCaller(TextResponse("a"), TextResponse("b"))
	injected := &ProviderError{Provider: "scripted", StatusCode: 429, Message: "rate limited", Retryable: true}
	caller.FailAt(1, injected)

	if _, err := caller.Call(context.Background(), nil, nil, Hyperparameters{}); err != nil {
		t.Fatalf("call 0: %v", err)
	}
	_, err := caller.Call(context.Background(), nil, nil, Hyperparameters{})
	if !errors.Is(err, injected) {
		t.Fatalf("call 1 error = %v, want injected error", err)
	}
}

func TestScriptedCallerReset(t *testing.T) {
	caller := NewScriptedCaller(TextResponse("again"))

	if _, err := caller.Call(context.Background(), nil, nil, Hyperparameters{}); err != nil {
		t.Fatalf("Call: %v", err)
	}
	caller.Reset()
	resp, err := caller.Call(context.Background(), nil, nil, Hyperparameters{})
	if err != nil {
		t.Fatalf("Call after Reset: %v", err)
	}
	if resp.Content != "again" {
		t.Errorf("content after Reset = %q, want %q", resp.Content, "again")
	}
}

func TestToolCallResponse(t *testing.T) {
	resp := ToolCallResponse("calculator", map[string]any{"operation": "add"})
	if !resp.HasToolInvocations() {
		t.Fatal("HasToolInvocations() = false")
	}
	inv := resp.ToolInvocations[0]
	if inv.Name != "calculator" {
		t.Errorf("name = %q, want calculator", inv.Name)
	}
	if inv.ID == "" {
		t.Error("invocation has no id")
	}
	other := ToolCallResponse("calculator", map[string]any{"operation": "add"})
	if other.ToolInvocations[0].ID == inv.ID {
		t.Error("invocation ids collide across responses")
	}
}
