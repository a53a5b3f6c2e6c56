package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ScriptedCaller replays a fixed sequence of responses, one per Call.
// Replaying the same script against the agent loop yields an identical
// conversation and termination reason on every run.
type ScriptedCaller struct {
	responses []*Response
	errs      map[int]error
	calls     int
	mu        sync.Mutex
}

// NewScriptedCaller creates a caller that returns the given responses in
// order. Calls past the end of the script fail with a ProviderError.
func NewScriptedCaller(responses ...*Response) *ScriptedCaller {
	return &ScriptedCaller{responses: responses, errs: make(map[int]error)}
}

// FailAt makes the nth call (0-based) return err instead of its response.
func (s *ScriptedCaller) FailAt(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[n] = err
}

// Call returns the next scripted response.
func (s *ScriptedCaller) Call(_ context.Context, _ Conversation, _ []ToolDefinition, params Hyperparameters) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.calls
	s.calls++

	if err, ok := s.errs[n]; ok {
		return nil, err
	}
	if n >= len(s.responses) {
		return nil, &ProviderError{
			Provider: "scripted",
			Message:  fmt.Sprintf("script exhausted after %d responses", len(s.responses)),
		}
	}

	resp := *s.responses[n]
	if resp.ID == "" {
		resp.ID = fmt.Sprintf("scripted_%d", n)
	}
	if resp.Model == "" {
		resp.Model = params.Model
	}
	return &resp, nil
}

// Calls returns how many times Call has been invoked.
func (s *ScriptedCaller) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Reset rewinds the script to the beginning.
func (s *ScriptedCaller) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = 0
}

// TextResponse builds a plain-answer response for scripting.
func TextResponse(content string) *Response {
	return &Response{Content: content}
}

// ToolCallResponse builds a response requesting a single tool call with the
// given arguments. The arguments value must marshal to JSON.
func ToolCallResponse(name string, args any) *Response {
	raw, err := json.Marshal(args)
	if err != nil {
		panic(fmt.Sprintf("llm: unmarshalable scripted arguments for %s: %v", name, err))
	}
	return &Response{
		ToolInvocations: []ToolInvocation{{
			ID:        "call_" + uuid.New().String()[:8],
			Name:      name,
			Arguments: raw,
		}},
	}
}
