package dialogue

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/felipe-codebit/prototipo-zap/internal/session"
)

func (c *Controller) handleExit(ctx context.Context, t turnState) (Reply, error) {
	c.store.AppendMessage(t.id, session.Message{
		ID:     uuid.NewString(),
		Text:   exitMarkerText,
		Sender: session.SenderUser,
		Type:   session.MessageText,
	})
	c.store.ResetKeepingHistory(t.id, session.AllArtifacts...)
	return Reply{Text: c.say(ctx, SituationExit, c.generationContext(t))}, nil
}

func (c *Controller) handleGreeting(ctx context.Context, t turnState) (Reply, error) {
	return Reply{
		Text: c.say(ctx, SituationGreeting, c.generationContext(t)),
		SideEffects: SideEffects{
			Video: &VideoRef{Type: "saudacao", URL: fmt.Sprintf("%s?type=%s", c.videoPath, url.QueryEscape("saudacao"))},
		},
	}, nil
}

func (c *Controller) handleFarewell(ctx context.Context, t turnState) (Reply, error) {
	text := c.say(ctx, SituationFarewell, c.generationContext(t))
	c.store.Clear(t.id)
	return Reply{Text: text}, nil
}

func (c *Controller) handleQuestion(ctx context.Context, t turnState) (Reply, error) {
	return Reply{Text: c.say(ctx, SituationQuestion, c.generationContext(t))}, nil
}

func (c *Controller) handleReflection(ctx context.Context, t turnState) (Reply, error) {
	return Reply{Text: c.say(ctx, SituationReflection, c.generationContext(t))}, nil
}

// resumable intents are the ones "ok, vamos" can pick back up.
var resumable = map[session.Intent]bool{
	session.IntentLessonPlan:          true,
	session.IntentWeeklySchedule:      true,
	session.IntentQuestion:            true,
	session.IntentRevisePlan:          true,
	session.IntentPedagogicReflection: true,
}

func (c *Controller) handleContinue(ctx context.Context, t turnState) (Reply, error) {
	if resumable[t.prev] {
		cur := c.store.GetOrCreate(t.id)
		c.store.UpdateIntent(t.id, t.prev, max(cur.IntentConfidence, 0.9))
		return c.dispatch(ctx, t.prev, t)
	}

	if intent := suggestedIntent(c.store.History(t.id)); intent != session.IntentNone {
		c.store.UpdateIntent(t.id, intent, 0.9)
		return c.dispatch(ctx, intent, t)
	}
	return Reply{Text: c.say(ctx, SituationContinueNoTask, c.generationContext(t))}, nil
}

// suggestedIntent looks at the last three bot messages, newest first, for a
// task the assistant offered.
func suggestedIntent(history []session.Message) session.Intent {
	seen := 0
	for i := len(history) - 1; i >= 0 && seen < 3; i-- {
		if history[i].Sender != session.SenderBot {
			continue
		}
		seen++
		text := normalize(history[i].Text)
		switch {
		case containsAny(text, "plano de aula", "plano para"):
			return session.IntentLessonPlan
		case containsAny(text, "planejamento semanal", "organizar", "semana"):
			return session.IntentWeeklySchedule
		case containsAny(text, "duvida", "pergunta", "esclarecer"):
			return session.IntentQuestion
		}
	}
	return session.IntentNone
}

var questionWords = []string{"como", "que", "qual", "quais", "quando", "onde", "porque", "quem", "quanto"}

func looksLikeQuestion(raw, norm string) bool {
	return strings.Contains(raw, "?") ||
		strings.Contains(norm, "por que") ||
		hasAnyWord(words(norm), questionWords...)
}

func (c *Controller) handleUnclear(ctx context.Context, t turnState) (Reply, error) {
	gc := c.generationContext(t)
	switch {
	case containsAny(t.norm, "nao quero", "nao preciso"):
		return Reply{Text: c.say(ctx, SituationNegation, gc)}, nil
	case looksLikeQuestion(t.text, t.norm):
		return Reply{Text: c.say(ctx, SituationQuestion, gc)}, nil
	}
	return Reply{Text: c.say(ctx, SituationUnclear, gc)}, nil
}

// handlePDFRequest answers "manda o pdf" without consulting the classifier.
func (c *Controller) handlePDFRequest(ctx context.Context, t turnState) (Reply, error) {
	if _, ok := c.LatestPlan(ctx, t.id); !ok {
		return Reply{Text: pdfNoPlanText}, nil
	}
	suggestion := c.say(ctx, SituationPDFReady, c.generationContext(t))
	return Reply{
		Text:        pdfReadyText + "\n\n" + suggestion,
		SideEffects: SideEffects{PDF: c.pdfLink(t.id)},
	}, nil
}
