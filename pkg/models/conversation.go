package models

import (
	"bytes"
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Chat Roles
// ============================================================================

// ChatRole represents the role of a chat message sender.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleSystem    ChatRole = "system"
)

// ============================================================================
// Messages
// ============================================================================

// Message is a single chat turn. Content is kept as raw JSON so clients may
// send structured content; only string content takes part in scoring.
type Message struct {
	Role    ChatRole        `json:"role"`
	Content json.RawMessage `json:"content"`
}

// NewMessage creates a message with plain text content.
func NewMessage(role ChatRole, text string) Message {
	raw, _ := json.Marshal(text) // marshaling a string cannot fail
	return Message{Role: role, Content: raw}
}

// Text returns the content and true if the content is a JSON string.
func (m Message) Text() (string, bool) {
	trimmed := bytes.TrimSpace(m.Content)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}

// PlainContent returns the text content, or the raw JSON for structured content.
func (m Message) PlainContent() string {
	if s, ok := m.Text(); ok {
		return s
	}
	return string(m.Content)
}

// ============================================================================
// Conversation Context
// ============================================================================

// ConversationContext is the running heuristic state of one conversation.
// ProjectType, Industry, Scale, ClientEngagement, RiskFactors and
// PriceReductionFactor are carried for the client but not derived by the analyzer.
type ConversationContext struct {
	ProjectType            *string  `json:"projectType,omitempty"`
	Industry               *string  `json:"industry,omitempty"`
	Scale                  *string  `json:"scale,omitempty"`
	TechnicalComplexity    float64  `json:"technicalComplexity"`
	ProjectClarity         float64  `json:"projectClarity"`
	ClientEngagement       float64  `json:"clientEngagement"`
	RiskFactors            []string `json:"riskFactors"`
	ConversationProgress   float64  `json:"conversationProgress"`
	PriceReductionFactor   float64  `json:"priceReductionFactor"`
	MeaningfulInteractions int      `json:"meaningfulInteractions"`
}

// DefaultConversationContext returns the context of a conversation with no
// analyzed messages yet.
func DefaultConversationContext() ConversationContext {
	return ConversationContext{
		TechnicalComplexity: 0.5,
		ProjectClarity:      0.5,
		ClientEngagement:    0.5,
		RiskFactors:         []string{},
	}
}

// Clone returns a deep copy so callers can update a context without aliasing
// the stored record.
func (c ConversationContext) Clone() ConversationContext {
	out := c
	out.ProjectType = cloneString(c.ProjectType)
	out.Industry = cloneString(c.Industry)
	out.Scale = cloneString(c.Scale)
	if c.RiskFactors == nil {
		out.RiskFactors = []string{}
	} else {
		out.RiskFactors = slices.Clone(c.RiskFactors)
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// ============================================================================
// Pricing
// ============================================================================

// PriceRange is a {min,max} estimate in whole currency units.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

var (
	// InitialPriceRange is shown before any meaningful interaction.
	InitialPriceRange = PriceRange{Min: 10000, Max: 15000}

	// TargetPriceRange is the floor the estimate converges to.
	TargetPriceRange = PriceRange{Min: 5000, Max: 5300}
)

// Requirement complexity levels.
const (
	ComplexityLow    = "low"
	ComplexityMedium = "medium"
	ComplexityHigh   = "high"
)

// ProjectRequirement is one requirement extracted by the model.
type ProjectRequirement struct {
	Description string  `json:"description" validate:"required"`
	Complexity  string  `json:"complexity" validate:"oneof=low medium high"`
	Impact      float64 `json:"impact" validate:"gte=0,lte=1"`
}

// ============================================================================
// Conversation Record
// ============================================================================

// ConversationRecord is the persisted state of one chat conversation.
// At most one record exists per (ID, SessionID).
type ConversationRecord struct {
	ID           uuid.UUID            `json:"id" db:"id"`
	SessionID    uuid.UUID            `json:"sessionId" db:"session_id"`
	Messages     []Message            `json:"messages" db:"messages"`
	Context      ConversationContext  `json:"context" db:"context"`
	Requirements []ProjectRequirement `json:"requirements" db:"requirements"`
	PriceRange   PriceRange           `json:"priceRange" db:"price_range"`
	CreatedAt    time.Time            `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time            `json:"updatedAt" db:"updated_at"`
}
