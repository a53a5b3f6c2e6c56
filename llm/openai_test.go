package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestConvertMessages(t *testing.T) {
	conv := Conversation{
		SystemMessage("sys"),
		UserMessage("question"),
		AssistantMessage("", ToolInvocation{ID: "call_1", Name: "calculator", Arguments: json.RawMessage(`{"num1":2}`)}),
		ToolResultMessage(ToolResult{InvocationID: "call_1", Content: "5"}),
	}

	result := convertMessages(conv)
	if len(result) != 4 {
		t.Fatalf("converted %d messages, want 4", len(result))
	}
	if result[0].OfSystem == nil {
		t.Error("message 0 is not a system message")
	}
	if result[1].OfUser == nil {
		t.Error("message 1 is not a user message")
	}
	assistant := result[2].OfAssistant
	if assistant == nil {
		t.Fatal("message 2 is not an assistant message")
	}
	if len(assistant.ToolCalls) != 1 || assistant.ToolCalls[0].ID != "call_1" {
		t.Errorf("assistant tool calls = %+v", assistant.ToolCalls)
	}
	toolMsg := result[3].OfTool
	if toolMsg == nil {
		t.Fatal("message 3 is not a tool message")
	}
	if toolMsg.ToolCallID != "call_1" {
		t.Errorf("tool call id = %q, want call_1", toolMsg.ToolCallID)
	}
}

func TestConvertMessagesSkipsEmptyToolMessage(t *testing.T) {
	conv := Conversation{{Role: RoleTool}}
	if got := convertMessages(conv); len(got) != 0 {
		t.Errorf("converted %d messages, want 0", len(got))
	}
}

func TestConvertToolDefinitions(t *testing.T) {
	defs := convertToolDefinitions([]ToolDefinition{{
		Name:        "calculator",
		Description: "does math",
		Parameters:  map[string]any{"type": "object"},
	}})
	if len(defs) != 1 {
		t.Fatalf("converted %d definitions, want 1", len(defs))
	}
	if defs[0].Function.Name != "calculator" {
		t.Errorf("function name = %q", defs[0].Function.Name)
	}
	if defs[0].Function.Parameters["type"] != "object" {
		t.Errorf("function parameters = %v", defs[0].Function.Parameters)
	}

	if got := convertToolDefinitions(nil); got != nil {
		t.Errorf("convertToolDefinitions(nil) = %v, want nil", got)
	}
}

func TestWrapOpenAIError(t *testing.T) {
	wrapped := wrapOpenAIError(errors.New("dial tcp: connection refused"))
	var pe *ProviderError
	if !errors.As(wrapped, &pe) {
		t.Fatalf("wrapped = %T, want ProviderError", wrapped)
	}
	if !pe.Retryable {
		t.Error("transport failure not retryable")
	}
	if pe.StatusCode != 0 {
		t.Errorf("status = %d, want 0", pe.StatusCode)
	}
}

func TestRetryableStatus(t *testing.T) {
	for _, status := range []int{408, 429, 500, 502, 503, 504} {
		if !retryableStatus(status) {
			t.Errorf("retryableStatus(%d) = false", status)
		}
	}
	for _, status := range []int{400, 401, 403, 404, 422} {
		if retryableStatus(status) {
			t.Errorf("retryableStatus(%d) = true", status)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	retryable := &ProviderError{Provider: "openai", StatusCode: 503, Retryable: true}
	if !IsRetryable(retryable) {
		t.Error("IsRetryable(retryable provider error) = false")
	}
	if IsRetryable(&ProviderError{Provider: "openai", StatusCode: 401}) {
		t.Error("IsRetryable(auth error) = true")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("IsRetryable(plain error) = true")
	}
	wrapped := fmt.Errorf("model call: %w", retryable)
	if !IsRetryable(wrapped) {
		t.Error("IsRetryable(wrapped provider error) = false")
	}
}
