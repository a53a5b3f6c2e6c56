package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAICaller is a Caller backed by the OpenAI chat completions API. It
// also serves OpenAI-compatible endpoints via WithOpenAIBaseURL.
type OpenAICaller struct {
	client openai.Client
}

// OpenAIOption configures an OpenAICaller.
type OpenAIOption func(*openaiConfig)

type openaiConfig struct {
	apiKey  string
	baseURL string
	extra   []openaiopt.RequestOption
}

// WithOpenAIAPIKey sets the API key.
func WithOpenAIAPIKey(key string) OpenAIOption {
	return func(c *openaiConfig) { c.apiKey = key }
}

// WithOpenAIBaseURL points the caller at an OpenAI-compatible endpoint.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(c *openaiConfig) { c.baseURL = url }
}

// WithOpenAIRequestOptions appends extra request options to the client.
func WithOpenAIRequestOptions(opts ...openaiopt.RequestOption) OpenAIOption {
	return func(c *openaiConfig) { c.extra = append(c.extra, opts...) }
}

// NewOpenAICaller creates an OpenAICaller.
func NewOpenAICaller(opts ...OpenAIOption) *OpenAICaller {
	cfg := &openaiConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var clientOpts []openaiopt.RequestOption
	if cfg.apiKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(cfg.apiKey))
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(cfg.baseURL))
	}
	clientOpts = append(clientOpts, cfg.extra...)

	return &OpenAICaller{client: openai.NewClient(clientOpts...)}
}

// Call sends one chat completion request.
func (o *OpenAICaller) Call(ctx context.Context, conversation Conversation, tools []ToolDefinition, params Hyperparameters) (*Response, error) {
	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(params.Model),
		Messages: convertMessages(conversation),
		Tools:    convertToolDefinitions(tools),
	}
	applyHyperparameters(&req, params)

	completion, err := o.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return nil, wrapOpenAIError(err)
	}
	if len(completion.Choices) == 0 {
		return nil, &ProviderError{
			Provider: "openai",
			Message:  "completion returned no choices",
		}
	}

	choice := completion.Choices[0]
	resp := &Response{
		ID:      completion.ID,
		Model:   completion.Model,
		Content: choice.Message.Content,
		Usage: Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:  int(completion.Usage.TotalTokens),
		},
	}
	for i, tc := range choice.Message.ToolCalls {
		id := tc.ID
		if id == "" {
			// Some compatible providers omit call ids.
			id = fmt.Sprintf("auto_call_%d", i)
		}
		resp.ToolInvocations = append(resp.ToolInvocations, ToolInvocation{
			ID:        id,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return resp, nil
}

func applyHyperparameters(req *openai.ChatCompletionNewParams, params Hyperparameters) {
	if params.Temperature != nil {
		req.Temperature = openai.Float(*params.Temperature)
	}
	if params.TopP != nil {
		req.TopP = openai.Float(*params.TopP)
	}
	if params.MaxTokens != nil {
		req.MaxCompletionTokens = openai.Int(int64(*params.MaxTokens))
	}
	if len(params.StopSequences) == 1 {
		req.Stop = openai.ChatCompletionNewParamsStopUnion{OfString: openai.String(params.StopSequences[0])}
	} else if len(params.StopSequences) > 1 {
		req.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: params.StopSequences}
	}
	if params.PresencePenalty != nil {
		req.PresencePenalty = openai.Float(*params.PresencePenalty)
	}
	if params.FrequencyPenalty != nil {
		req.FrequencyPenalty = openai.Float(*params.FrequencyPenalty)
	}
	if params.Seed != nil {
		req.Seed = openai.Int(int64(*params.Seed))
	}
}

func convertMessages(conversation Conversation) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(conversation))
	for _, msg := range conversation {
		switch msg.Role {
		case RoleSystem:
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			})
		case RoleUser:
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			})
		case RoleAssistant:
			assistant := &openai.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String(msg.Content),
				}
			}
			for _, inv := range msg.ToolInvocations {
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID: inv.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      inv.Name,
						Arguments: string(inv.Arguments),
					},
				})
			}
			result = append(result, openai.ChatCompletionMessageParamUnion{OfAssistant: assistant})
		case RoleTool:
			if msg.Result == nil {
				continue
			}
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfTool: &openai.ChatCompletionToolMessageParam{
					ToolCallID: msg.Result.InvocationID,
					Content: openai.ChatCompletionToolMessageParamContentUnion{
						OfString: openai.String(msg.Result.Content),
					},
				},
			})
		}
	}
	return result
}

func convertToolDefinitions(tools []ToolDefinition) []openai.ChatCompletionToolParam {
	var result []openai.ChatCompletionToolParam
	for _, t := range tools {
		result = append(result, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  shared.FunctionParameters(t.Parameters),
			},
		})
	}
	return result
}

func wrapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider:   "openai",
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Retryable:  retryableStatus(apiErr.StatusCode),
			Cause:      err,
		}
	}
	// Transport-level failure with no HTTP response.
	return &ProviderError{
		Provider:  "openai",
		Message:   err.Error(),
		Retryable: true,
		Cause:     err,
	}
}
