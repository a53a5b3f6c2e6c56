package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/teilomillet/gollm"
)

// GollmCaller is a Caller backed by the gollm multi-provider SDK.
type GollmCaller struct {
	provider string
	llm      gollm.LLM
}

// GollmOption configures a GollmCaller.
type GollmOption func(*gollmConfig)

type gollmConfig struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	extra       []gollm.ConfigOption
}

// WithAPIKey sets the provider API key. When empty, gollm reads it from the
// environment.
func WithAPIKey(key string) GollmOption {
	return func(c *gollmConfig) { c.apiKey = key }
}

// WithModel sets the default model.
func WithModel(model string) GollmOption {
	return func(c *gollmConfig) { c.model = model }
}

// WithGollmOptions appends extra gollm configuration options.
func WithGollmOptions(opts ...gollm.ConfigOption) GollmOption {
	return func(c *gollmConfig) { c.extra = append(c.extra, opts...) }
}

// NewGollmCaller creates a GollmCaller for the given provider ("openai",
// "anthropic", ...).
func NewGollmCaller(provider string, opts ...GollmOption) (*GollmCaller, error) {
	cfg := &gollmConfig{
		model:       "gpt-4o-mini",
		maxTokens:   4096,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	gollmOpts := []gollm.ConfigOption{
		gollm.SetProvider(provider),
		gollm.SetModel(cfg.model),
		gollm.SetMaxTokens(cfg.maxTokens),
		gollm.SetTemperature(cfg.temperature),
		gollm.SetMaxRetries(0), // single request per Call, no internal retry
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}
	if cfg.apiKey != "" {
		gollmOpts = append(gollmOpts, gollm.SetAPIKey(cfg.apiKey))
	}
	gollmOpts = append(gollmOpts, cfg.extra...)

	llm, err := gollm.NewLLM(gollmOpts...)
	if err != nil {
		return nil, fmt.Errorf("create gollm LLM for provider %s: %w", provider, err)
	}
	return &GollmCaller{provider: provider, llm: llm}, nil
}

// NewGollmCallerFromLLM wraps an existing gollm.LLM instance.
func NewGollmCallerFromLLM(provider string, llm gollm.LLM) *GollmCaller {
	return &GollmCaller{provider: provider, llm: llm}
}

// Call sends one request through gollm.
func (g *GollmCaller) Call(ctx context.Context, conversation Conversation, tools []ToolDefinition, params Hyperparameters) (*Response, error) {
	prompt := g.buildPrompt(conversation, tools, params)

	if params.Model != "" {
		g.llm.SetOption("model", params.Model)
	}
	if params.Temperature != nil {
		g.llm.SetOption("temperature", *params.Temperature)
	}
	if params.TopP != nil {
		g.llm.SetOption("top_p", *params.TopP)
	}
	if params.MaxTokens != nil {
		g.llm.SetOption("max_tokens", *params.MaxTokens)
	}

	text, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, g.classifyError(err)
	}
	return g.buildResponse(params, text), nil
}

// buildPrompt flattens the conversation into gollm's single-prompt shape:
// system messages become the system prompt, everything else is joined with
// role markers so the model keeps the multi-turn context.
func (g *GollmCaller) buildPrompt(conversation Conversation, tools []ToolDefinition, params Hyperparameters) *gollm.Prompt {
	var system strings.Builder
	var parts []string

	for _, msg := range conversation {
		switch msg.Role {
		case RoleSystem:
			system.WriteString(msg.Content)
			system.WriteString("\n")
		case RoleUser:
			parts = append(parts, msg.Content)
		case RoleAssistant:
			if msg.Content != "" {
				parts = append(parts, "[Assistant]: "+msg.Content)
			}
			for _, inv := range msg.ToolInvocations {
				parts = append(parts, fmt.Sprintf("[Assistant tool call %s]: %s(%s)", inv.ID, inv.Name, string(inv.Arguments)))
			}
		case RoleTool:
			if msg.Result == nil {
				continue
			}
			prefix := "[Tool Result]"
			if msg.Result.IsError {
				prefix = "[Tool Error]"
			}
			parts = append(parts, prefix+": "+msg.Result.Content)
		}
	}

	promptText := strings.Join(parts, "\n")
	if promptText == "" {
		promptText = "Hello"
	}

	var opts []gollm.PromptOption
	if s := strings.TrimSpace(system.String()); s != "" {
		opts = append(opts, gollm.WithSystemPrompt(s, gollm.CacheTypeEphemeral))
	}
	if params.MaxTokens != nil {
		opts = append(opts, gollm.WithMaxLength(*params.MaxTokens))
	}
	if len(tools) > 0 {
		gollmTools := make([]gollm.Tool, 0, len(tools))
		for _, t := range tools {
			gollmTools = append(gollmTools, gollm.Tool{
				Type: "function",
				Function: gollm.Function{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  t.Parameters,
				},
			})
		}
		opts = append(opts, gollm.WithTools(gollmTools))
		opts = append(opts, gollm.WithToolChoice("auto"))
	}

	return gollm.NewPrompt(promptText, opts...)
}

// buildResponse parses any tool calls gollm embedded in the response text.
func (g *GollmCaller) buildResponse(params Hyperparameters, text string) *Response {
	invocations := parseEmbeddedToolCalls(text)
	content := text
	if len(invocations) > 0 {
		content = stripEmbeddedToolCalls(text)
	}
	return &Response{
		ID:              "resp_" + uuid.New().String()[:8],
		Model:           params.Model,
		Content:         content,
		ToolInvocations: invocations,
		Usage: Usage{
			// gollm does not expose provider usage; approximate from length.
			OutputTokens: len(text) / 4,
			TotalTokens:  len(text) / 4,
		},
	}
}

// embeddedCallMarkers are the JSON prefixes gollm providers use when they
// return tool calls inline in the response text.
var embeddedCallMarkers = []string{`{"tool_calls"`, `[{"name"`}

func embeddedCallIndex(text string) int {
	for _, marker := range embeddedCallMarkers {
		if idx := strings.Index(text, marker); idx != -1 {
			return idx
		}
	}
	return -1
}

// parseEmbeddedToolCalls extracts tool invocations from response text.
func parseEmbeddedToolCalls(text string) []ToolInvocation {
	start := embeddedCallIndex(text)
	if start == -1 {
		return nil
	}

	raw := text[start:]
	if strings.HasPrefix(raw, `{"tool_calls"`) {
		var wrapper struct {
			ToolCalls []struct {
				Name      string          `json:"name"`
				Arguments json.RawMessage `json:"arguments"`
			} `json:"tool_calls"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapper); err != nil {
			return nil
		}
		var invocations []ToolInvocation
		for _, c := range wrapper.ToolCalls {
			invocations = append(invocations, ToolInvocation{
				ID:        "call_" + uuid.New().String()[:8],
				Name:      c.Name,
				Arguments: c.Arguments,
			})
		}
		return invocations
	}

	var calls []struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal([]byte(raw), &calls); err != nil {
		return nil
	}
	var invocations []ToolInvocation
	for _, c := range calls {
		invocations = append(invocations, ToolInvocation{
			ID:        "call_" + uuid.New().String()[:8],
			Name:      c.Name,
			Arguments: c.Arguments,
		})
	}
	return invocations
}

// stripEmbeddedToolCalls removes the tool-call JSON from the response text.
func stripEmbeddedToolCalls(text string) string {
	if idx := embeddedCallIndex(text); idx != -1 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}

// classifyError maps a gollm error onto ProviderError by sniffing the
// message; gollm does not surface structured status codes.
func (g *GollmCaller) classifyError(err error) error {
	msg := err.Error()
	lower := strings.ToLower(msg)

	status := 0
	retryable := true
	switch {
	case strings.Contains(lower, "401"), strings.Contains(lower, "unauthorized"), strings.Contains(lower, "invalid api key"):
		status, retryable = 401, false
	case strings.Contains(lower, "403"), strings.Contains(lower, "forbidden"):
		status, retryable = 403, false
	case strings.Contains(lower, "404"), strings.Contains(lower, "not found"):
		status, retryable = 404, false
	case strings.Contains(lower, "429"), strings.Contains(lower, "rate limit"):
		status = 429
	case strings.Contains(lower, "context length"), strings.Contains(lower, "too many tokens"):
		status, retryable = 413, false
	case strings.Contains(lower, "500"), strings.Contains(lower, "internal server"):
		status = 500
	}

	return &ProviderError{
		Provider:   g.provider,
		StatusCode: status,
		Message:    msg,
		Retryable:  retryable,
		Cause:      err,
	}
}
