package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

// DefaultAnthropicEndpoint is used when no base URL is configured.
const DefaultAnthropicEndpoint = "https://api.anthropic.com/v1"

// AnthropicClient provides chat completions through the Anthropic Messages API.
type AnthropicClient struct {
	client   *anthropic.Client
	endpoint string
	model    string
	logger   *zap.Logger
}

// NewAnthropicClient creates a client for the Anthropic Messages API.
func NewAnthropicClient(cfg *Config, logger *zap.Logger) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultAnthropicEndpoint
	}

	client := anthropic.NewClient(cfg.APIKey,
		anthropic.WithBaseURL(strings.TrimSuffix(endpoint, "/")),
		anthropic.WithHTTPClient(&http.Client{Transport: &contextAwareTransport{base: http.DefaultTransport}}),
	)

	return &AnthropicClient{
		client:   client,
		endpoint: endpoint,
		model:    cfg.Model,
		logger:   logger.Named("llm-anthropic"),
	}, nil
}

// GenerateChat sends the conversation and returns the assistant's reply.
// System messages are joined into the request's system prompt. The Messages
// API has no JSON response mode, so opts.JSONMode relies on the prompt alone.
func (c *AnthropicClient) GenerateChat(ctx context.Context, messages []Message, opts ChatOptions) (*GenerateResponseResult, error) {
	system, turns := toAnthropicMessages(messages)
	if len(turns) == 0 {
		return nil, NewErrorWithContext(ErrorTypeRequest, "no user or assistant messages", false, nil, c.model, c.endpoint, 0)
	}

	temperature := float32(opts.Temperature)
	req := anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		System:      system,
		Messages:    turns,
		MaxTokens:   opts.MaxTokens,
		Temperature: &temperature,
	}

	c.logger.Debug("LLM request",
		zap.String("model", c.model),
		zap.Int("message_count", len(turns)),
		zap.Float64("temperature", opts.Temperature),
		zap.Int("max_tokens", opts.MaxTokens))

	start := time.Now()

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		llmErr := ClassifyError(err)
		llmErr.Model = c.model
		llmErr.Endpoint = c.endpoint
		return nil, llmErr
	}

	content := firstText(resp)
	if strings.TrimSpace(content) == "" {
		return nil, NewErrorWithContext(ErrorTypeResponse, "empty response content", false, nil, c.model, c.endpoint, 0)
	}

	c.logger.Info("LLM request completed",
		zap.Int("prompt_tokens", resp.Usage.InputTokens),
		zap.Int("completion_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &GenerateResponseResult{
		Content:          content,
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
		TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}, nil
}

// GetModel returns the configured model name.
func (c *AnthropicClient) GetModel() string {
	return c.model
}

// GetEndpoint returns the configured endpoint.
func (c *AnthropicClient) GetEndpoint() string {
	return c.endpoint
}

func toAnthropicMessages(messages []Message) (string, []anthropic.Message) {
	var system []string
	turns := make([]anthropic.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			turns = append(turns, textMessage(anthropic.RoleAssistant, m.Content))
		default:
			turns = append(turns, textMessage(anthropic.RoleUser, m.Content))
		}
	}
	return strings.Join(system, "\n\n"), turns
}

func textMessage(role anthropic.ChatRole, text string) anthropic.Message {
	return anthropic.Message{Role: role, Content: []anthropic.MessageContent{
		{Type: "text", Text: &text},
	}}
}

func firstText(resp anthropic.MessagesResponse) string {
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return *block.Text
		}
	}
	return ""
}
