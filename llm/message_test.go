package llm

import (
	"encoding/json"
	"testing"
)

func TestConversationAppend(t *testing.T) {
	base := Conversation{SystemMessage("sys")}
	extended := base.Append(UserMessage("q"), AssistantMessage("a"))

	if len(base) != 1 {
		t.Errorf("base length changed to %d", len(base))
	}
	if len(extended) != 3 {
		t.Fatalf("extended length = %d, want 3", len(extended))
	}
	if extended[2].Role != RoleAssistant {
		t.Errorf("last role = %q, want %q", extended[2].Role, RoleAssistant)
	}
}

func TestConversationClone(t *testing.T) {
	original := Conversation{UserMessage("hi")}
	clone := original.Clone()
	clone[0] = UserMessage("changed")

	if original[0].Content != "hi" {
		t.Errorf("clone mutation leaked into original: %q", original[0].Content)
	}
}

func TestLastAssistant(t *testing.T) {
	conv := Conversation{
		SystemMessage("sys"),
		UserMessage("q"),
		AssistantMessage("first"),
		ToolResultMessage(ToolResult{InvocationID: "call_1", Content: "out"}),
		AssistantMessage("second"),
	}
	last := conv.LastAssistant()
	if last == nil || last.Content != "second" {
		t.Fatalf("LastAssistant() = %+v, want content %q", last, "second")
	}

	if (Conversation{UserMessage("q")}).LastAssistant() != nil {
		t.Error("LastAssistant() found an assistant in a user-only conversation")
	}
}

func TestToolResultMessage(t *testing.T) {
	result := ToolResult{InvocationID: "call_9", Content: "done", IsError: false}
	msg := ToolResultMessage(result)

	if msg.Role != RoleTool {
		t.Errorf("role = %q, want %q", msg.Role, RoleTool)
	}
	if msg.Result == nil || msg.Result.InvocationID != "call_9" {
		t.Fatalf("result = %+v, want invocation call_9", msg.Result)
	}

	// The message owns a copy of the result.
	result.Content = "mutated"
	if msg.Result.Content != "done" {
		t.Errorf("message result mutated through the original: %q", msg.Result.Content)
	}
}

func TestResponseAssistantMessage(t *testing.T) {
	resp := &Response{
		Content: "thinking",
		ToolInvocations: []ToolInvocation{
			{ID: "call_1", Name: "calculator", Arguments: json.RawMessage(`{"num1": 1}`)},
		},
	}
	msg := resp.AssistantMessage()
	if msg.Role != RoleAssistant {
		t.Errorf("role = %q, want %q", msg.Role, RoleAssistant)
	}
	if msg.Content != "thinking" {
		t.Errorf("content = %q", msg.Content)
	}
	if len(msg.ToolInvocations) != 1 || msg.ToolInvocations[0].Name != "calculator" {
		t.Errorf("invocations = %+v", msg.ToolInvocations)
	}
}
