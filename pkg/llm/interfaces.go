package llm

import (
	"context"
)

// Roles accepted by ChatClient implementations.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one provider-neutral chat turn.
type Message struct {
	Role    string
	Content string
}

// ChatOptions controls a single completion.
type ChatOptions struct {
	Temperature float64
	MaxTokens   int
	// JSONMode asks the provider to constrain output to a JSON object where supported.
	JSONMode bool
}

// GenerateResponseResult contains the reply text and token usage.
type GenerateResponseResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatClient defines the interface for chat completion.
// Use this interface for dependency injection to enable mocking in tests.
type ChatClient interface {
	// GenerateChat sends the conversation and returns the model's reply.
	GenerateChat(ctx context.Context, messages []Message, opts ChatOptions) (*GenerateResponseResult, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint.
	GetEndpoint() string
}

// Ensure clients implement ChatClient at compile time.
var (
	_ ChatClient = (*Client)(nil)
	_ ChatClient = (*AnthropicClient)(nil)
)
