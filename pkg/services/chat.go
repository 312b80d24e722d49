package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/apperrors"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/config"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/estimate"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/llm"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/logging"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/metrics"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/models"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/prompts"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/repositories"
)

// Fallback reasons recorded when a chat turn fails.
const (
	fallbackLLM              = "llm_error"
	fallbackInvalidJSON      = "invalid_json"
	fallbackSchemaValidation = "schema_validation"
	fallbackSave             = "save_error"
)

// ChatService runs one turn of the estimate chat.
type ChatService interface {
	// SendMessage appends the incoming messages to the conversation, updates
	// the estimate, asks the model for a reply and persists the result.
	// Errors wrapping apperrors.ErrSchemaValidation mean the model replied
	// with JSON of the wrong shape.
	SendMessage(ctx context.Context, req *models.ChatRequest) (*models.ChatResult, error)
}

type chatService struct {
	conversations repositories.ConversationRepository
	client        llm.ChatClient
	provider      string
	options       llm.ChatOptions
	timeout       time.Duration
	metrics       *metrics.Collector
	logger        *zap.Logger
}

// NewChatService creates a chat service. collector may be nil.
func NewChatService(
	conversations repositories.ConversationRepository,
	client llm.ChatClient,
	cfg config.LLMConfig,
	collector *metrics.Collector,
	logger *zap.Logger,
) ChatService {
	return &chatService{
		conversations: conversations,
		client:        client,
		provider:      cfg.Provider,
		options: llm.ChatOptions{
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			JSONMode:    true,
		},
		timeout: cfg.Timeout,
		metrics: collector,
		logger:  logger.Named("chat-service"),
	}
}

var _ ChatService = (*chatService)(nil)

func (s *chatService) SendMessage(ctx context.Context, req *models.ChatRequest) (*models.ChatResult, error) {
	logger := s.logger.With(
		zap.String("conversation_id", req.ConversationID.String()),
		zap.String("session_id", req.SessionID.String()))

	prior := s.loadConversation(ctx, req.ConversationID, req.SessionID, logger)

	var (
		messages     []models.Message
		prevContext  *models.ConversationContext
		requirements []models.ProjectRequirement
		createdAt    time.Time
	)
	if prior == nil {
		messages = make([]models.Message, 0, len(req.Messages)+2)
		messages = append(messages, models.NewMessage(models.ChatRoleSystem, prompts.SystemPrompt))
		messages = append(messages, req.Messages...)
	} else {
		incoming := pie.Filter(req.Messages, func(m models.Message) bool {
			return m.Role != models.ChatRoleSystem
		})
		messages = make([]models.Message, 0, len(prior.Messages)+len(incoming)+1)
		messages = append(messages, prior.Messages...)
		messages = append(messages, incoming...)
		prevContext = &prior.Context
		requirements = prior.Requirements
		createdAt = prior.CreatedAt
	}

	convContext := estimate.AnalyzeContext(messages, prevContext)
	priceRange := estimate.CalculatePrice(convContext)
	s.metrics.RecordEstimate(priceRange.Min, priceRange.Max)

	reply, err := s.generateReply(ctx, req.ConversationID, messages, priceRange, logger)
	if err != nil {
		return nil, err
	}

	messages = append(messages, models.NewMessage(models.ChatRoleAssistant, reply.Message))
	merged := make([]models.ProjectRequirement, 0, len(requirements)+len(reply.Requirements))
	merged = append(merged, requirements...)
	merged = append(merged, reply.Requirements...)

	record := &models.ConversationRecord{
		ID:           req.ConversationID,
		SessionID:    req.SessionID,
		Messages:     messages,
		Context:      convContext,
		Requirements: merged,
		PriceRange:   priceRange,
		CreatedAt:    createdAt,
	}
	if err := s.conversations.Save(ctx, record); err != nil {
		s.metrics.RecordChatFallback(fallbackSave)
		logger.Error("Failed to save conversation", zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("save conversation: %w", err)
	}

	logger.Debug("Chat turn completed",
		zap.Int("message_count", len(messages)),
		zap.Int("meaningful_interactions", convContext.MeaningfulInteractions),
		zap.Int("price_min", priceRange.Min),
		zap.Int("price_max", priceRange.Max),
		zap.String("next_action", string(reply.NextAction)))

	return &models.ChatResult{
		Reply:          reply,
		ConversationID: req.ConversationID,
		SessionID:      req.SessionID,
		PriceRange:     priceRange,
		Context:        convContext,
		Requirements:   merged,
	}, nil
}

// loadConversation returns nil for a new conversation. Load failures are
// logged and treated the same way so a database hiccup does not block the chat.
func (s *chatService) loadConversation(ctx context.Context, conversationID, sessionID uuid.UUID, logger *zap.Logger) *models.ConversationRecord {
	record, err := s.conversations.Load(ctx, conversationID, sessionID)
	if err == nil {
		return record
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		logger.Warn("Failed to load conversation, starting a new one",
			zap.String("error", logging.SanitizeError(err)))
	}
	return nil
}

func (s *chatService) generateReply(
	ctx context.Context,
	conversationID uuid.UUID,
	messages []models.Message,
	priceRange models.PriceRange,
	logger *zap.Logger,
) (*models.ChatReply, error) {
	llmMessages := make([]llm.Message, 0, len(messages)+1)
	for _, m := range messages {
		llmMessages = append(llmMessages, llm.Message{Role: string(m.Role), Content: m.PlainContent()})
	}
	llmMessages = append(llmMessages, llm.Message{Role: llm.RoleSystem, Content: prompts.BuildJSONInstruction(priceRange)})

	ctx = llm.WithConversationID(ctx, conversationID)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.client.GenerateChat(ctx, llmMessages, s.options)
	if err != nil {
		errType := string(llm.GetErrorType(err))
		s.metrics.RecordLLMCall(s.provider, s.client.GetModel(), errType, time.Since(start), 0, 0)
		s.metrics.RecordChatFallback(fallbackLLM)
		logger.Error("LLM call failed",
			zap.String("error_type", errType),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("generate reply: %w", err)
	}
	s.metrics.RecordLLMCall(s.provider, s.client.GetModel(), "success", time.Since(start),
		result.PromptTokens, result.CompletionTokens)

	reply, err := llm.ParseChatReply(result.Content)
	if err != nil {
		reason := fallbackInvalidJSON
		if errors.Is(err, apperrors.ErrSchemaValidation) {
			reason = fallbackSchemaValidation
		}
		s.metrics.RecordChatFallback(reason)
		logger.Warn("Model reply rejected",
			zap.String("reason", reason),
			zap.Error(err))
		return nil, err
	}

	return reply, nil
}
