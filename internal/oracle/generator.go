package oracle

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/felipe-codebit/prototipo-zap/internal/dialogue"
	"github.com/felipe-codebit/prototipo-zap/internal/llm"
)

// Generator writes replies and artifacts with an LLM.
type Generator struct {
	provider llm.Provider
	model    string
	log      *zap.Logger
}

// NewGenerator creates a generator. An empty model uses the provider default.
func NewGenerator(provider llm.Provider, model string, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{provider: provider, model: model, log: log.Named("generator")}
}

// Generate returns text for situation. Unknown situations are an error so the
// caller falls back to canned copy.
func (g *Generator) Generate(ctx context.Context, situation dialogue.Situation, gc dialogue.GenerationContext) (string, error) {
	var (
		messages  []llm.Message
		maxTokens = 500
	)
	switch situation {
	case dialogue.SituationLessonPlan:
		messages, maxTokens = buildLessonPlanMessages(gc.Lesson), 1500
	case dialogue.SituationWeeklySchedule:
		messages, maxTokens = buildWeeklyScheduleMessages(gc.Weekly), 1000
	default:
		if _, ok := situationPrompts[situation]; !ok {
			return "", fmt.Errorf("unknown situation %q", situation)
		}
		messages = buildReplyMessages(situation, gc)
	}

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", situation, err)
	}
	logUsage(g.log.With(zap.String("session_id", gc.SessionID)), string(situation), resp)
	return strings.TrimSpace(resp.Content), nil
}
