package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAnthropicStub(t *testing.T, status int, body string, captured *map[string]any) *AnthropicClient {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client, err := NewAnthropicClient(&Config{Endpoint: server.URL, Model: "claude-3-5-haiku-latest", APIKey: "test-key"}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestAnthropicClient_GenerateChat_Success(t *testing.T) {
	var sent map[string]any
	client := newAnthropicStub(t, http.StatusOK, `{
		"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-haiku-latest",
		"content":[{"type":"text","text":"{\"message\":\"hello\"}"}],
		"stop_reason":"end_turn","usage":{"input_tokens":20,"output_tokens":6}}`, &sent)

	result, err := client.GenerateChat(context.Background(), []Message{
		{Role: RoleSystem, Content: "you estimate software projects"},
		{Role: RoleSystem, Content: "respond with JSON"},
		{Role: RoleUser, Content: "I need a marketplace"},
		{Role: RoleAssistant, Content: "tell me more"},
		{Role: RoleUser, Content: "payments and chat"},
	}, ChatOptions{Temperature: 0.7, MaxTokens: 1000, JSONMode: true})

	require.NoError(t, err)
	assert.Equal(t, `{"message":"hello"}`, result.Content)
	assert.Equal(t, 20, result.PromptTokens)
	assert.Equal(t, 6, result.CompletionTokens)
	assert.Equal(t, 26, result.TotalTokens)

	assert.Equal(t, "you estimate software projects\n\nrespond with JSON", sent["system"])
	assert.EqualValues(t, 1000, sent["max_tokens"])

	messages, ok := sent["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 3, "system messages must not be sent as turns")
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", messages[1].(map[string]any)["role"])
}

func TestAnthropicClient_GenerateChat_OnlySystemMessages(t *testing.T) {
	client := newAnthropicStub(t, http.StatusOK, `{}`, nil)

	_, err := client.GenerateChat(context.Background(), []Message{{Role: RoleSystem, Content: "x"}}, ChatOptions{MaxTokens: 10})

	require.Error(t, err)
	assert.Equal(t, ErrorTypeRequest, GetErrorType(err))
}

func TestAnthropicClient_GenerateChat_NoTextBlock(t *testing.T) {
	client := newAnthropicStub(t, http.StatusOK, `{
		"id":"msg_2","type":"message","role":"assistant","content":[],
		"usage":{"input_tokens":1,"output_tokens":0}}`, nil)

	_, err := client.GenerateChat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, ChatOptions{MaxTokens: 10})

	require.Error(t, err)
	assert.Equal(t, ErrorTypeResponse, GetErrorType(err))
}

func TestAnthropicClient_GenerateChat_AuthError(t *testing.T) {
	client := newAnthropicStub(t, http.StatusUnauthorized,
		`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`, nil)

	_, err := client.GenerateChat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, ChatOptions{MaxTokens: 10})

	require.Error(t, err)
	assert.Equal(t, ErrorTypeAuth, GetErrorType(err))
}

func TestNewAnthropicClient_DefaultEndpoint(t *testing.T) {
	client, err := NewAnthropicClient(&Config{Model: "claude-3-5-haiku-latest", APIKey: "k"}, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, DefaultAnthropicEndpoint, client.GetEndpoint())
	assert.Equal(t, "claude-3-5-haiku-latest", client.GetModel())
}
