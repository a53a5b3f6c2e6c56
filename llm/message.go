package llm

import (
	"encoding/json"
)

// Role identifies who produced a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolInvocation is a model-requested tool call. The ID correlates the
// invocation with the ToolResult that answers it.
type ToolInvocation struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult answers a ToolInvocation with the same ID. Content carries the
// serialized handler output, or an error description when IsError is set.
type ToolResult struct {
	InvocationID string `json:"invocation_id"`
	Content      string `json:"content"`
	IsError      bool   `json:"is_error"`
}

// Message is one entry in a conversation. Immutable once appended.
//
// ToolInvocations is populated only on assistant messages; Result only on
// tool messages.
type Message struct {
	Role            Role             `json:"role"`
	Content         string           `json:"content,omitempty"`
	ToolInvocations []ToolInvocation `json:"tool_invocations,omitempty"`
	Result          *ToolResult      `json:"result,omitempty"`
}

// SystemMessage creates a system Message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage creates a user Message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates an assistant Message carrying optional tool
// invocations.
func AssistantMessage(content string, invocations ...ToolInvocation) Message {
	return Message{Role: RoleAssistant, Content: content, ToolInvocations: invocations}
}

// ToolResultMessage creates a tool Message wrapping a single result.
func ToolResultMessage(result ToolResult) Message {
	r := result
	return Message{Role: RoleTool, Content: result.Content, Result: &r}
}

// Conversation is an ordered, append-only sequence of messages.
type Conversation []Message

// Append returns the conversation with msgs appended. The receiver is not
// modified when its backing array must grow.
func (c Conversation) Append(msgs ...Message) Conversation {
	return append(c, msgs...)
}

// Clone returns a copy sharing no backing storage with the receiver.
func (c Conversation) Clone() Conversation {
	out := make(Conversation, len(c))
	copy(out, c)
	return out
}

// LastAssistant returns the most recent assistant message, or nil.
func (c Conversation) LastAssistant() *Message {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Role == RoleAssistant {
			m := c[i]
			return &m
		}
	}
	return nil
}
