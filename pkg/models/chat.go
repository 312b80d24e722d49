package models

import "github.com/google/uuid"

// NextAction tells the client what the assistant wants to do next.
type NextAction string

const (
	NextActionGatherInfo  NextAction = "gather_info"
	NextActionRefinePrice NextAction = "refine_price"
	NextActionFinalize    NextAction = "finalize"
	NextActionLocked      NextAction = "locked"
)

// Timeline is the delivery estimate returned by the model.
type Timeline struct {
	Min  float64 `json:"min" validate:"gte=0"`
	Max  float64 `json:"max" validate:"gte=0,gtefield=Min"`
	Unit string  `json:"unit" validate:"required"`
}

// DefaultTimeline is returned with fallback responses.
var DefaultTimeline = Timeline{Min: 2, Max: 4, Unit: "weeks"}

// ChatReply is the structured JSON the model must produce on every turn.
type ChatReply struct {
	Message            string               `json:"message" validate:"required"`
	Confidence         float64              `json:"confidence" validate:"gte=0,lte=1"`
	Timeline           Timeline             `json:"timeline"`
	Requirements       []ProjectRequirement `json:"requirements" validate:"dive"`
	SuggestedQuestions []string             `json:"suggestedQuestions"`
	NextAction         NextAction           `json:"nextAction" validate:"oneof=gather_info refine_price finalize locked"`
}

// ChatRequest is one incoming batch of client messages.
type ChatRequest struct {
	ConversationID uuid.UUID
	SessionID      uuid.UUID
	Messages       []Message
}

// ChatResult is everything the orchestrator produced for one turn.
type ChatResult struct {
	Reply          *ChatReply
	ConversationID uuid.UUID
	SessionID      uuid.UUID
	PriceRange     PriceRange
	Context        ConversationContext
	Requirements   []ProjectRequirement
}
