package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
)

// ChatClient is a chat completion provider using the OpenAI-compatible API.
type ChatClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// ChatConfig holds the chat provider settings.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Logger      *zap.Logger
}

// NewChatClient creates an OpenAI-compatible chat completion provider.
func NewChatClient(cfg *ChatConfig) *ChatClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &ChatClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      cfg.Logger,
	}
}

// Complete implements domain.ChatCompleter for plain text completion.
func (c *ChatClient) Complete(ctx context.Context, messages []domain.ChatMessage) (domain.ChatMessage, error) {
	return c.complete(ctx, messages, nil)
}

// CompleteWithTools implements domain.ChatCompleter with function calling
// enabled. The returned message either carries text content or tool calls.
func (c *ChatClient) CompleteWithTools(
	ctx context.Context, messages []domain.ChatMessage, tools []domain.ToolSpec,
) (domain.ChatMessage, error) {
	return c.complete(ctx, messages, tools)
}

func (c *ChatClient) complete(
	ctx context.Context, messages []domain.ChatMessage, tools []domain.ToolSpec,
) (domain.ChatMessage, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages:    toOpenAIMessages(messages),
	}
	for _, t := range tools {
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.ChatMessage{}, parseChatAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return domain.ChatMessage{}, fmt.Errorf("empty chat response: %w", domain.ErrChatProviderError)
	}

	return fromOpenAIMessage(resp.Choices[0].Message), nil
}

func toOpenAIMessages(messages []domain.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msg := openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
			Name:       m.ToolName,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		out = append(out, msg)
	}
	return out
}

func fromOpenAIMessage(m openai.ChatCompletionMessage) domain.ChatMessage {
	out := domain.ChatMessage{
		Role:    m.Role,
		Content: m.Content,
	}
	for _, tc := range m.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, domain.ChatToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out
}

// parseChatAPIError wraps provider failures with domain.ErrChatProviderError
// for correct status mapping at the boundary.
func parseChatAPIError(err error) error {
	wrap := domain.ErrChatProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("chat API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("chat request failed: %w", wrap)
}
