package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/config"
)

// DefaultOpenAIEndpoint is used when no base URL is configured.
const DefaultOpenAIEndpoint = "https://api.openai.com/v1"

// NewChatClient creates the ChatClient selected by cfg.Provider.
// A localhost base URL is rewritten when running inside Docker.
func NewChatClient(cfg config.LLMConfig, logger *zap.Logger) (ChatClient, error) {
	endpoint := config.ResolveURLForDocker(cfg.BaseURL)

	switch cfg.Provider {
	case config.ProviderAnthropic:
		client, err := NewAnthropicClient(&Config{
			Endpoint: endpoint,
			Model:    cfg.Model,
			APIKey:   cfg.APIKey,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create anthropic client: %w", err)
		}
		return client, nil
	case config.ProviderOpenAI, "":
		if endpoint == "" {
			endpoint = DefaultOpenAIEndpoint
		}
		client, err := NewClient(&Config{
			Endpoint: endpoint,
			Model:    cfg.Model,
			APIKey:   cfg.APIKey,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create openai client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
