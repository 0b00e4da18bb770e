package oracle

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/felipe-codebit/prototipo-zap/internal/dialogue"
	"github.com/felipe-codebit/prototipo-zap/internal/llm"
	"github.com/felipe-codebit/prototipo-zap/internal/session"
)

// Extractor pulls slot values out of a message with an LLM in JSON mode.
type Extractor struct {
	provider llm.Provider
	model    string
	log      *zap.Logger
}

// NewExtractor creates an extractor. An empty model uses the provider default.
func NewExtractor(provider llm.Provider, model string, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{provider: provider, model: model, log: log.Named("extractor")}
}

type extractReply struct {
	Ano              string   `json:"ano"`
	Tema             string   `json:"tema"`
	HabilidadeBNCC   string   `json:"habilidadeBNCC"`
	NivelDificuldade string   `json:"nivelDificuldade"`
	DataInicio       string   `json:"dataInicio"`
	DataFim          string   `json:"dataFim"`
	Atividades       []string `json:"atividades"`
	Materias         []string `json:"materias"`
}

// Extract returns only the fields relevant to req.Intent.
func (e *Extractor) Extract(ctx context.Context, req dialogue.ExtractRequest) (dialogue.SlotUpdate, error) {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model:       e.model,
		Messages:    buildExtractMessages(req),
		MaxTokens:   300,
		Temperature: 0,
		JSONMode:    true,
	})
	if err != nil {
		return dialogue.SlotUpdate{}, fmt.Errorf("llm completion: %w", err)
	}
	logUsage(e.log, "extract", resp)

	var out extractReply
	if err := parseJSON(resp.Content, &out); err != nil {
		return dialogue.SlotUpdate{}, err
	}

	var u dialogue.SlotUpdate
	if req.Intent == session.IntentWeeklySchedule {
		u.Weekly = session.WeeklyScheduleSlots{
			DataInicio: strings.TrimSpace(out.DataInicio),
			DataFim:    strings.TrimSpace(out.DataFim),
			Atividades: compact(out.Atividades),
			Materias:   compact(out.Materias),
		}
		return u, nil
	}
	u.Lesson = session.LessonPlanSlots{
		Ano:              strings.TrimSpace(out.Ano),
		Tema:             strings.TrimSpace(out.Tema),
		HabilidadeBNCC:   strings.TrimSpace(out.HabilidadeBNCC),
		NivelDificuldade: difficulty(out.NivelDificuldade),
	}
	return u, nil
}

// difficulty accepts only the three known levels.
func difficulty(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "facil", "fácil":
		return "facil"
	case "medio", "médio":
		return "medio"
	case "dificil", "difícil":
		return "dificil"
	}
	return ""
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
