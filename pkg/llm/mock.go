package llm

import (
	"context"
	"sync"
)

// MockChatClient is a configurable mock for testing code that talks to an LLM.
// Set GenerateChatFunc to control behavior in tests.
type MockChatClient struct {
	// GenerateChatFunc is called when GenerateChat is invoked.
	// If nil, Response is returned.
	GenerateChatFunc func(ctx context.Context, messages []Message, opts ChatOptions) (*GenerateResponseResult, error)

	// Response is returned when GenerateChatFunc is nil.
	Response string

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Endpoint is returned by GetEndpoint. Defaults to "http://mock-endpoint".
	Endpoint string

	mu       sync.Mutex
	Calls    int
	Messages [][]Message
	Options  []ChatOptions
}

// NewMockChatClient creates a mock that always answers with response.
func NewMockChatClient(response string) *MockChatClient {
	return &MockChatClient{
		Response: response,
		Model:    "mock-model",
		Endpoint: "http://mock-endpoint",
	}
}

// GenerateChat implements ChatClient.
func (m *MockChatClient) GenerateChat(ctx context.Context, messages []Message, opts ChatOptions) (*GenerateResponseResult, error) {
	m.mu.Lock()
	m.Calls++
	m.Messages = append(m.Messages, append([]Message(nil), messages...))
	m.Options = append(m.Options, opts)
	m.mu.Unlock()

	if m.GenerateChatFunc != nil {
		return m.GenerateChatFunc(ctx, messages, opts)
	}
	return &GenerateResponseResult{Content: m.Response}, nil
}

// LastMessages returns the messages of the most recent call, or nil.
func (m *MockChatClient) LastMessages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Messages) == 0 {
		return nil
	}
	return m.Messages[len(m.Messages)-1]
}

// GetModel implements ChatClient.
func (m *MockChatClient) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// GetEndpoint implements ChatClient.
func (m *MockChatClient) GetEndpoint() string {
	if m.Endpoint == "" {
		return "http://mock-endpoint"
	}
	return m.Endpoint
}

var _ ChatClient = (*MockChatClient)(nil)
