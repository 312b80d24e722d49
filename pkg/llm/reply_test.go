package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/apperrors"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/models"
)

func TestParseChatReply_Valid(t *testing.T) {
	content := `{
		"message": "What platforms do you need?",
		"confidence": 0.6,
		"timeline": {"min": 3, "max": 5, "unit": "weeks"},
		"requirements": [{"description": "Stripe payments", "complexity": "Medium", "impact": 0.7}],
		"suggestedQuestions": ["iOS only?", ""],
		"nextAction": "refine_price"
	}`

	reply, err := ParseChatReply(content)

	require.NoError(t, err)
	assert.Equal(t, "What platforms do you need?", reply.Message)
	assert.InDelta(t, 0.6, reply.Confidence, 1e-9)
	assert.Equal(t, models.Timeline{Min: 3, Max: 5, Unit: "weeks"}, reply.Timeline)
	require.Len(t, reply.Requirements, 1)
	assert.Equal(t, "medium", reply.Requirements[0].Complexity)
	assert.Equal(t, []string{"iOS only?"}, reply.SuggestedQuestions)
	assert.Equal(t, models.NextActionRefinePrice, reply.NextAction)
}

func TestParseChatReply_LooseTypes(t *testing.T) {
	content := "```json\n" + `{
		"message": "Sounds good",
		"confidence": "80%",
		"timeline": {"min": "2", "max": 6, "unit": "weeks"},
		"requirements": [{"description": "Admin panel", "complexity": "low", "impact": "0.3"}]
	}` + "\n```"

	reply, err := ParseChatReply(content)

	require.NoError(t, err)
	assert.InDelta(t, 0.8, reply.Confidence, 1e-9)
	assert.Equal(t, 2.0, reply.Timeline.Min)
	assert.InDelta(t, 0.3, reply.Requirements[0].Impact, 1e-9)
	assert.Equal(t, models.NextActionGatherInfo, reply.NextAction, "missing nextAction defaults to gather_info")
	assert.Empty(t, reply.SuggestedQuestions)
}

func TestParseChatReply_MissingTimelineUsesDefault(t *testing.T) {
	reply, err := ParseChatReply(`{"message": "hi", "confidence": 0.1, "nextAction": "gather_info"}`)

	require.NoError(t, err)
	assert.Equal(t, models.DefaultTimeline, reply.Timeline)
	assert.NotNil(t, reply.Requirements)
}

func TestParseChatReply_NormalizesUsableReplies(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, reply *models.ChatReply)
	}{
		{
			name:    "timeline without unit",
			content: `{"message": "Hi", "timeline": {"min": 2, "max": 4}, "nextAction": "gather_info"}`,
			check: func(t *testing.T, reply *models.ChatReply) {
				assert.Equal(t, models.Timeline{Min: 2, Max: 4, Unit: models.DefaultTimeline.Unit}, reply.Timeline)
			},
		},
		{
			name:    "timeline bounds reversed",
			content: `{"message": "Hi", "timeline": {"min": 6, "max": 3, "unit": "Weeks"}}`,
			check: func(t *testing.T, reply *models.ChatReply) {
				assert.Equal(t, models.Timeline{Min: 3, Max: 6, Unit: "weeks"}, reply.Timeline)
			},
		},
		{
			name:    "unknown next action",
			content: `{"message": "Hi", "nextAction": "ask_more"}`,
			check: func(t *testing.T, reply *models.ChatReply) {
				assert.Equal(t, models.NextActionGatherInfo, reply.NextAction)
			},
		},
		{
			name:    "next action case",
			content: `{"message": "Hi", "nextAction": " Finalize "}`,
			check: func(t *testing.T, reply *models.ChatReply) {
				assert.Equal(t, models.NextActionFinalize, reply.NextAction)
			},
		},
		{
			name:    "unknown complexity",
			content: `{"message": "Hi", "requirements": [{"description": "Chat", "complexity": "moderate", "impact": 0.5}]}`,
			check: func(t *testing.T, reply *models.ChatReply) {
				require.Len(t, reply.Requirements, 1)
				assert.Equal(t, models.ComplexityMedium, reply.Requirements[0].Complexity)
			},
		},
		{
			name:    "requirement without description dropped",
			content: `{"message": "Hi", "requirements": [{"complexity": "low", "impact": 0.5}, {"description": "Login", "complexity": "low"}]}`,
			check: func(t *testing.T, reply *models.ChatReply) {
				require.Len(t, reply.Requirements, 1)
				assert.Equal(t, "Login", reply.Requirements[0].Description)
			},
		},
		{
			name:    "confidence as whole percent",
			content: `{"message": "Hi", "confidence": 70}`,
			check: func(t *testing.T, reply *models.ChatReply) {
				assert.InDelta(t, 0.7, reply.Confidence, 1e-9)
			},
		},
		{
			name:    "confidence clamped",
			content: `{"message": "Hi", "confidence": 250}`,
			check: func(t *testing.T, reply *models.ChatReply) {
				assert.Equal(t, 1.0, reply.Confidence)
			},
		},
		{
			name:    "negative confidence clamped",
			content: `{"message": "Hi", "confidence": -0.2}`,
			check: func(t *testing.T, reply *models.ChatReply) {
				assert.Equal(t, 0.0, reply.Confidence)
			},
		},
		{
			name:    "impact read as percent",
			content: `{"message": "Hi", "requirements": [{"description": "Sync", "complexity": "high", "impact": 1.5}]}`,
			check: func(t *testing.T, reply *models.ChatReply) {
				require.Len(t, reply.Requirements, 1)
				assert.InDelta(t, 0.015, reply.Requirements[0].Impact, 1e-9)
			},
		},
		{
			name:    "impact above percent range clamped",
			content: `{"message": "Hi", "requirements": [{"description": "Sync", "complexity": "high", "impact": 400}]}`,
			check: func(t *testing.T, reply *models.ChatReply) {
				require.Len(t, reply.Requirements, 1)
				assert.Equal(t, 1.0, reply.Requirements[0].Impact)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := ParseChatReply(tt.content)
			require.NoError(t, err)
			tt.check(t, reply)
		})
	}
}

func TestParseChatReply_UnusableReplies(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing message", `{"confidence": 0.5}`},
		{"blank message", `{"message": "   "}`},
		{"message wrong shape", `{"message": {"text": "x"}}`},
		{"confidence not numeric", `{"message": "x", "confidence": "very"}`},
		{"impact not numeric", `{"message": "x", "requirements": [{"description": "d", "impact": "lots"}]}`},
		{"timeline not numeric", `{"message": "x", "timeline": {"min": "soon", "max": 2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseChatReply(tt.content)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrSchemaValidation), "expected schema validation error, got %v", err)
		})
	}
}

func TestParseChatReply_MalformedJSONIsNotSchemaError(t *testing.T) {
	_, err := ParseChatReply("I'm sorry, I can't help with that.")

	require.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrSchemaValidation))
}
