// Package estimate scores chat messages and turns the accumulated score into a
// price range shown to the visitor.
package estimate

import (
	"math"
	"strings"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/models"
)

const (
	// keywordWeight is the score added per matching keyword.
	keywordWeight = 0.2
	// maxProgress caps conversationProgress.
	maxProgress = 5.0
)

// Analyzer folds the newest user message into a conversation context.
type Analyzer struct {
	keywords *KeywordSets
}

// NewAnalyzer creates an analyzer over the given vocabulary.
// A nil vocabulary selects DefaultKeywords.
func NewAnalyzer(keywords *KeywordSets) *Analyzer {
	if keywords == nil {
		keywords = DefaultKeywords
	}
	return &Analyzer{keywords: keywords}
}

var defaultAnalyzer = NewAnalyzer(nil)

// AnalyzeContext runs the default analyzer.
func AnalyzeContext(messages []models.Message, prev *models.ConversationContext) models.ConversationContext {
	return defaultAnalyzer.Analyze(messages, prev)
}

// Analyze returns an updated copy of prev reflecting only the last message in
// messages. Earlier messages are assumed to be folded into prev already.
// conversationProgress is the exception: it is recomputed from the whole list.
func (a *Analyzer) Analyze(messages []models.Message, prev *models.ConversationContext) models.ConversationContext {
	var ctx models.ConversationContext
	if prev == nil {
		ctx = models.DefaultConversationContext()
	} else {
		ctx = prev.Clone()
	}

	if len(messages) > 0 {
		a.scoreMessage(&ctx, messages[len(messages)-1])
	}

	ctx.ConversationProgress = conversationProgress(messages)
	return ctx
}

func (a *Analyzer) scoreMessage(ctx *models.ConversationContext, msg models.Message) {
	if msg.Role != models.ChatRoleUser {
		return
	}
	text, ok := msg.Text()
	if !ok {
		return
	}

	hits := a.keywords.Count(strings.ToLower(text))
	if hits.Total() == 0 {
		return
	}

	ctx.MeaningfulInteractions++

	clarityDelta := math.Min(keywordWeight*float64(hits.ProjectType+hits.Feature), 1)
	complexityDelta := math.Min(keywordWeight*float64(hits.Technical), 1)

	if clarityDelta > 0 {
		ctx.ProjectClarity = math.Min(ctx.ProjectClarity+clarityDelta, 1)
	}
	if complexityDelta > 0 {
		ctx.TechnicalComplexity = math.Min(ctx.TechnicalComplexity+complexityDelta, 1)
	}
}

func conversationProgress(messages []models.Message) float64 {
	n := 0
	for _, m := range messages {
		if m.Role != models.ChatRoleSystem {
			n++
		}
	}
	return math.Min(float64(n)/2, maxProgress)
}
