package llm

import (
	"context"
)

// ToolDefinition is the serializable description of a tool sent to the
// provider. Parameters holds a JSON-Schema object.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Hyperparameters are the per-request sampling settings. Nil pointer fields
// are omitted and left to provider defaults.
type Hyperparameters struct {
	Model            string   `json:"model"`
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	MaxTokens        *int     `json:"max_tokens,omitempty"`
	StopSequences    []string `json:"stop_sequences,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	Seed             *int     `json:"seed,omitempty"`
}

// Usage tracks token consumption reported by the provider.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Response is the structured result of a single provider call.
type Response struct {
	ID              string           `json:"id"`
	Model           string           `json:"model"`
	Content         string           `json:"content,omitempty"`
	ToolInvocations []ToolInvocation `json:"tool_invocations,omitempty"`
	Usage           Usage            `json:"usage"`
}

// HasToolInvocations reports whether the model requested any tool calls.
func (r *Response) HasToolInvocations() bool {
	return len(r.ToolInvocations) > 0
}

// AssistantMessage converts the response into a conversation message.
func (r *Response) AssistantMessage() Message {
	return AssistantMessage(r.Content, r.ToolInvocations...)
}

// Caller performs a single chat-completion request. Implementations must
// pass the full conversation to the provider and must not retry internally.
type Caller interface {
	Call(ctx context.Context, conversation Conversation, tools []ToolDefinition, params Hyperparameters) (*Response, error)
}
