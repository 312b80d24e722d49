package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/apperrors"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/models"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/services"
)

// fallbackMessage is shown when a chat turn fails for any reason.
const fallbackMessage = "Sorry, I'm having trouble putting together an answer right now. " +
	"Could you send that again in a moment? Your estimate below is still a good starting point."

// SessionStore reads and writes the anonymous session id cookie.
type SessionStore interface {
	SessionID(r *http.Request) (uuid.UUID, bool)
	SetSessionID(w http.ResponseWriter, r *http.Request, id uuid.UUID) error
}

type chatRequest struct {
	Messages       []models.Message `json:"messages"`
	ConversationID string           `json:"conversationId,omitempty"`
	SessionID      string           `json:"sessionId,omitempty"`
}

// ChatResponse is the body of every POST /chat response, including failures.
type ChatResponse struct {
	Message            string                      `json:"message"`
	Confidence         float64                     `json:"confidence"`
	Timeline           models.Timeline             `json:"timeline"`
	Requirements       []models.ProjectRequirement `json:"requirements"`
	SuggestedQuestions []string                    `json:"suggestedQuestions"`
	NextAction         models.NextAction           `json:"nextAction"`
	ConversationID     uuid.UUID                   `json:"conversationId"`
	SessionID          uuid.UUID                   `json:"sessionId"`
	PriceRange         models.PriceRange           `json:"priceRange"`
	Context            models.ConversationContext  `json:"context"`
	Error              string                      `json:"error,omitempty"`
}

// ChatHandler handles the estimate chat endpoint.
type ChatHandler struct {
	chatService services.ChatService
	sessions    SessionStore
	logger      *zap.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService services.ChatService, sessions SessionStore, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		sessions:    sessions,
		logger:      logger.Named("chat-handler"),
	}
}

// RegisterRoutes registers POST /chat.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux, wrap func(route string, next http.Handler) http.Handler) {
	mux.Handle("POST /chat", wrap("POST /chat", http.HandlerFunc(h.Chat)))
}

// Chat handles POST /chat.
//
// Session id resolution: request body, then the session cookie, then a new
// id. The cookie is written whenever the body did not carry a session id,
// including on failure, so the client can continue.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := validateMessages(req.Messages); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	conversationID, err := parseOptionalUUID(req.ConversationID)
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_conversation_id", "conversationId must be a UUID")
		return
	}
	if conversationID == uuid.Nil {
		conversationID = uuid.New()
	}
	bodySessionID, err := parseOptionalUUID(req.SessionID)
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_session_id", "sessionId must be a UUID")
		return
	}

	sessionID := h.resolveSessionID(r, bodySessionID)

	if bodySessionID == uuid.Nil {
		if err := h.sessions.SetSessionID(w, r, sessionID); err != nil {
			h.logger.Error("Failed to set session cookie", zap.Error(err))
		}
	}

	result, err := h.chatService.SendMessage(r.Context(), &models.ChatRequest{
		ConversationID: conversationID,
		SessionID:      sessionID,
		Messages:       req.Messages,
	})
	if err != nil {
		h.writeFallback(w, err, conversationID, sessionID)
		return
	}

	reply := result.Reply
	response := ChatResponse{
		Message:            reply.Message,
		Confidence:         reply.Confidence,
		Timeline:           reply.Timeline,
		Requirements:       result.Requirements,
		SuggestedQuestions: reply.SuggestedQuestions,
		NextAction:         reply.NextAction,
		ConversationID:     result.ConversationID,
		SessionID:          result.SessionID,
		PriceRange:         result.PriceRange,
		Context:            result.Context,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write chat response", zap.Error(err))
	}
}

func (h *ChatHandler) resolveSessionID(r *http.Request, fromBody uuid.UUID) uuid.UUID {
	if fromBody != uuid.Nil {
		return fromBody
	}
	if id, ok := h.sessions.SessionID(r); ok {
		return id
	}
	return uuid.New()
}

func (h *ChatHandler) writeFallback(w http.ResponseWriter, err error, conversationID, sessionID uuid.UUID) {
	status := http.StatusInternalServerError
	code := "chat_failed"
	if errors.Is(err, apperrors.ErrSchemaValidation) {
		status = http.StatusUnprocessableEntity
		code = "invalid_model_response"
	}

	h.logger.Error("Chat turn failed, returning fallback",
		zap.String("conversation_id", conversationID.String()),
		zap.Int("status", status),
		zap.Error(err))

	response := ChatResponse{
		Message:            fallbackMessage,
		Confidence:         0,
		Timeline:           models.DefaultTimeline,
		Requirements:       []models.ProjectRequirement{},
		SuggestedQuestions: []string{},
		NextAction:         models.NextActionGatherInfo,
		ConversationID:     conversationID,
		SessionID:          sessionID,
		PriceRange:         models.InitialPriceRange,
		Context:            models.DefaultConversationContext(),
		Error:              code,
	}
	if err := WriteJSON(w, status, response); err != nil {
		h.logger.Error("Failed to write fallback response", zap.Error(err))
	}
}

func validateMessages(messages []models.Message) error {
	if len(messages) == 0 {
		return errors.New("messages must not be empty")
	}
	for i, m := range messages {
		switch m.Role {
		case models.ChatRoleUser, models.ChatRoleAssistant, models.ChatRoleSystem:
		default:
			return fmt.Errorf("messages[%d]: unknown role %q", i, m.Role)
		}
		if len(m.Content) == 0 {
			return fmt.Errorf("messages[%d]: content is required", i)
		}
	}
	return nil
}

// parseOptionalUUID returns uuid.Nil for an empty string.
func parseOptionalUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}
