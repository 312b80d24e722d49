package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/apperrors"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/jsonutil"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/models"
)

var replyValidator = validator.New()

// chatReplyWire mirrors models.ChatReply with loose types for the fields
// models most often get wrong (numbers as strings, percentages).
type chatReplyWire struct {
	Message            json.RawMessage   `json:"message"`
	Confidence         json.RawMessage   `json:"confidence"`
	Timeline           *timelineWire     `json:"timeline"`
	Requirements       []requirementWire `json:"requirements"`
	SuggestedQuestions []json.RawMessage `json:"suggestedQuestions"`
	NextAction         string            `json:"nextAction"`
}

type timelineWire struct {
	Min  json.RawMessage `json:"min"`
	Max  json.RawMessage `json:"max"`
	Unit string          `json:"unit"`
}

type requirementWire struct {
	Description string          `json:"description"`
	Complexity  string          `json:"complexity"`
	Impact      json.RawMessage `json:"impact"`
}

// ParseChatReply extracts the JSON object from a model response and normalizes
// it. Out-of-range or unknown values are coerced to defaults. Malformed JSON is
// returned as a plain error; a reply that cannot be used at all (no message,
// non-numeric fields) wraps apperrors.ErrSchemaValidation.
func ParseChatReply(content string) (*models.ChatReply, error) {
	wire, err := ParseJSONResponse[chatReplyWire](content)
	if err != nil {
		return nil, fmt.Errorf("parse chat reply: %w", err)
	}

	reply, err := wire.toModel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSchemaValidation, err)
	}

	if err := replyValidator.Struct(reply); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSchemaValidation, describeValidation(err))
	}

	return reply, nil
}

func (w *chatReplyWire) toModel() (*models.ChatReply, error) {
	confidence, err := jsonutil.FlexibleFloat(w.Confidence)
	if err != nil {
		return nil, fmt.Errorf("confidence: %w", err)
	}

	trimmed := bytes.TrimSpace(w.Message)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return nil, fmt.Errorf("message must be a string")
	}

	reply := &models.ChatReply{
		Message:    strings.TrimSpace(jsonutil.FlexibleStringValue(w.Message)),
		Confidence: unitInterval(confidence),
		Timeline:   models.DefaultTimeline,
		NextAction: normalizeNextAction(w.NextAction),
	}

	if w.Timeline != nil {
		timeline, err := w.Timeline.toModel()
		if err != nil {
			return nil, err
		}
		reply.Timeline = timeline
	}

	reply.Requirements = make([]models.ProjectRequirement, 0, len(w.Requirements))
	for i, r := range w.Requirements {
		impact, err := jsonutil.FlexibleFloat(r.Impact)
		if err != nil {
			return nil, fmt.Errorf("requirements[%d].impact: %w", i, err)
		}
		description := strings.TrimSpace(r.Description)
		if description == "" {
			continue
		}
		reply.Requirements = append(reply.Requirements, models.ProjectRequirement{
			Description: description,
			Complexity:  normalizeComplexity(r.Complexity),
			Impact:      unitInterval(impact),
		})
	}

	reply.SuggestedQuestions = make([]string, 0, len(w.SuggestedQuestions))
	for _, q := range w.SuggestedQuestions {
		if s := strings.TrimSpace(jsonutil.FlexibleStringValue(q)); s != "" {
			reply.SuggestedQuestions = append(reply.SuggestedQuestions, s)
		}
	}

	return reply, nil
}

// toModel fills a missing unit from the default timeline and orders the bounds.
func (t *timelineWire) toModel() (models.Timeline, error) {
	minVal, err := jsonutil.FlexibleFloat(t.Min)
	if err != nil {
		return models.Timeline{}, fmt.Errorf("timeline.min: %w", err)
	}
	maxVal, err := jsonutil.FlexibleFloat(t.Max)
	if err != nil {
		return models.Timeline{}, fmt.Errorf("timeline.max: %w", err)
	}

	minVal, maxVal = max(minVal, 0), max(maxVal, 0)
	if maxVal < minVal {
		minVal, maxVal = maxVal, minVal
	}

	unit := strings.ToLower(strings.TrimSpace(t.Unit))
	if unit == "" {
		unit = models.DefaultTimeline.Unit
	}
	return models.Timeline{Min: minVal, Max: maxVal, Unit: unit}, nil
}

func normalizeNextAction(raw string) models.NextAction {
	action := models.NextAction(strings.ToLower(strings.TrimSpace(raw)))
	switch action {
	case models.NextActionGatherInfo, models.NextActionRefinePrice, models.NextActionFinalize, models.NextActionLocked:
		return action
	default:
		return models.NextActionGatherInfo
	}
}

func normalizeComplexity(raw string) string {
	complexity := strings.ToLower(strings.TrimSpace(raw))
	switch complexity {
	case models.ComplexityLow, models.ComplexityMedium, models.ComplexityHigh:
		return complexity
	default:
		return models.ComplexityMedium
	}
}

// unitInterval reads values above 1 as percentages and clamps to [0, 1].
func unitInterval(v float64) float64 {
	if v > 1 && v <= 100 {
		v /= 100
	}
	return min(max(v, 0), 1)
}

func describeValidation(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	parts := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", e.Namespace(), e.Tag()))
	}
	return strings.Join(parts, "; ")
}
