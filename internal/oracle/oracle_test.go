package oracle

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felipe-codebit/prototipo-zap/internal/dialogue"
	"github.com/felipe-codebit/prototipo-zap/internal/llm"
	"github.com/felipe-codebit/prototipo-zap/internal/session"
)

// scriptedProvider answers every completion with the same content.
type scriptedProvider struct {
	mu      sync.Mutex
	content string
	err     error
	calls   []llm.CompletionRequest
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req)
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Content: p.content, Model: "gpt-4o-mini", InputTokens: 100, OutputTokens: 20}, nil
}

func (p *scriptedProvider) lastPrompt() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := p.calls[len(p.calls)-1].Messages
	return msgs[len(msgs)-1].Content
}

func TestClassifierUsesModelAnswer(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
		want    dialogue.Classification
	}{
		{"plain json", `{"intent":"plano_aula","confidence":0.9}`, "quero um plano", dialogue.Classification{Intent: session.IntentLessonPlan, Confidence: 0.9}},
		{"fenced json", "```json\n{\"intent\":\"tira_duvidas\",\"confidence\":0.8}\n```", "como avaliar?", dialogue.Classification{Intent: session.IntentQuestion, Confidence: 0.8}},
		{"unknown label", `{"intent":"banana","confidence":0.9}`, "banana", dialogue.Classification{Intent: session.IntentUnclear, Confidence: 0.9}},
		{"confidence clamped", `{"intent":"saudacao","confidence":1.7}`, "bom dia", dialogue.Classification{Intent: session.IntentGreeting, Confidence: 1}},
		{"unsure, no shortcut", `{"intent":"unclear","confidence":0.3}`, "hmm talvez", dialogue.Classification{Intent: session.IntentUnclear, Confidence: 0.3}},
		{"unsure, shortcut", `{"intent":"unclear","confidence":0.3}`, " Oi ", dialogue.Classification{Intent: session.IntentGreeting, Confidence: 1}},
		{"unsure, affirmative", `{"intent":"unclear","confidence":0.4}`, "sim", dialogue.Classification{Intent: session.IntentContinue, Confidence: 0.9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &scriptedProvider{content: tt.content}
			c := NewClassifier(p, "")

			got, err := c.Classify(context.Background(), dialogue.ClassifyRequest{Message: tt.message})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifierFallsBackToKeywords(t *testing.T) {
	p := &scriptedProvider{err: errors.New("connection refused")}
	c := NewClassifier(p, "")

	got, err := c.Classify(context.Background(), dialogue.ClassifyRequest{Message: "tchau"})
	require.NoError(t, err)
	assert.Equal(t, session.IntentFarewell, got.Intent)

	p = &scriptedProvider{content: "não sei"}
	c = NewClassifier(p, "")
	got, err = c.Classify(context.Background(), dialogue.ClassifyRequest{Message: "quero planejar a semana"})
	require.NoError(t, err)
	assert.Equal(t, session.IntentWeeklySchedule, got.Intent, "unparsable reply should fall back too")
}

func TestClassifierPrompt(t *testing.T) {
	p := &scriptedProvider{content: `{"intent":"plano_aula","confidence":0.9}`}
	c := NewClassifier(p, "gpt-4o-mini", WithTrustThreshold(0.5))

	_, err := c.Classify(context.Background(), dialogue.ClassifyRequest{
		Message:       "5º ano",
		CurrentIntent: session.IntentLessonPlan,
		History: []session.Message{
			{Text: "quero um plano", Sender: session.SenderUser},
			{Text: "Para qual ano?", Sender: session.SenderBot},
		},
	})
	require.NoError(t, err)

	require.Len(t, p.calls, 1)
	assert.True(t, p.calls[0].JSONMode)
	assert.Equal(t, "gpt-4o-mini", p.calls[0].Model)
	prompt := p.lastPrompt()
	assert.Contains(t, prompt, "Professor: quero um plano")
	assert.Contains(t, prompt, "Assistente: Para qual ano?")
	assert.Contains(t, prompt, "Intenção atual: plano_aula")
	assert.Contains(t, prompt, `"5º ano"`)
}

func TestKeywordClassify(t *testing.T) {
	tests := []struct {
		message string
		want    session.Intent
	}{
		{"quero um plano de aula", session.IntentLessonPlan},
		{"Tchau", session.IntentFarewell},
		{"quero organizar minha semana", session.IntentWeeklySchedule},
		{"deixa mais fácil", session.IntentRevisePlan},
		{"xyz", session.IntentUnclear},
		{"", session.IntentUnclear},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := KeywordClassify(tt.message)
			assert.Equal(t, tt.want, got.Intent)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		})
	}
	assert.Zero(t, KeywordClassify("xyz").Confidence)
}

func TestExtractorLessonPlan(t *testing.T) {
	p := &scriptedProvider{content: `{"ano":" 5º ano ","tema":"frações","habilidadeBNCC":"","nivelDificuldade":"Difícil","dataInicio":"segunda"}`}
	e := NewExtractor(p, "", nil)

	got, err := e.Extract(context.Background(), dialogue.ExtractRequest{
		Message: "5º ano, frações, difícil",
		Intent:  session.IntentLessonPlan,
		Collected: session.CollectedData{
			Lesson: session.LessonPlanSlots{Ano: "4º ano"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, session.LessonPlanSlots{Ano: "5º ano", Tema: "frações", NivelDificuldade: "dificil"}, got.Lesson)
	assert.Empty(t, got.Weekly.DataInicio, "weekly fields must not leak into a lesson extraction")
	assert.Contains(t, p.lastPrompt(), `"ano":"4º ano"`)
}

func TestExtractorWeeklySchedule(t *testing.T) {
	p := &scriptedProvider{content: `{"dataInicio":"segunda-feira","atividades":["corrigir provas"," "],"materias":[]}`}
	e := NewExtractor(p, "", nil)

	got, err := e.Extract(context.Background(), dialogue.ExtractRequest{Message: "a partir de segunda", Intent: session.IntentWeeklySchedule})
	require.NoError(t, err)
	assert.Equal(t, "segunda-feira", got.Weekly.DataInicio)
	assert.Equal(t, []string{"corrigir provas"}, got.Weekly.Atividades)
	assert.Nil(t, got.Weekly.Materias)
}

func TestExtractorErrors(t *testing.T) {
	e := NewExtractor(&scriptedProvider{err: errors.New("timeout")}, "", nil)
	_, err := e.Extract(context.Background(), dialogue.ExtractRequest{Message: "x", Intent: session.IntentLessonPlan})
	assert.Error(t, err)

	e = NewExtractor(&scriptedProvider{content: "sem json"}, "", nil)
	_, err = e.Extract(context.Background(), dialogue.ExtractRequest{Message: "x", Intent: session.IntentLessonPlan})
	assert.Error(t, err)
}

func TestGeneratorLessonPlan(t *testing.T) {
	p := &scriptedProvider{content: "  ### Plano de Aula: Frações\n\n1. Objetivo  "}
	g := NewGenerator(p, "", nil)

	got, err := g.Generate(context.Background(), dialogue.SituationLessonPlan, dialogue.GenerationContext{
		Lesson: session.LessonPlanSlots{Ano: "5º ano", HabilidadeBNCC: "EF05MA03", NivelDificuldade: "medio"},
	})
	require.NoError(t, err)
	assert.Equal(t, "### Plano de Aula: Frações\n\n1. Objetivo", got)
	assert.Equal(t, 1500, p.calls[0].MaxTokens)
	assert.Contains(t, p.lastPrompt(), "Tema/Habilidade BNCC: EF05MA03")
}

func TestGeneratorReplies(t *testing.T) {
	p := &scriptedProvider{content: "Olá!"}
	g := NewGenerator(p, "", nil)

	got, err := g.Generate(context.Background(), dialogue.SituationGreeting, dialogue.GenerationContext{
		Message: "oi",
		History: []session.Message{{Text: "oi", Sender: session.SenderUser}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Olá!", got)
	assert.True(t, strings.HasPrefix(p.calls[0].Messages[0].Content, "Você é a Ane"))
	assert.Contains(t, p.lastPrompt(), "Mensagem atual: oi")

	_, err = g.Generate(context.Background(), dialogue.Situation("desconhecida"), dialogue.GenerationContext{})
	assert.Error(t, err)
	assert.Len(t, p.calls, 1, "unknown situations must not reach the provider")
}

func TestGeneratorWrapsProviderErrors(t *testing.T) {
	cause := errors.New("rate limited")
	g := NewGenerator(&scriptedProvider{err: cause}, "", nil)

	_, err := g.Generate(context.Background(), dialogue.SituationWeeklySchedule, dialogue.GenerationContext{})
	assert.ErrorIs(t, err, cause)
}

func TestEverySituationHasAPrompt(t *testing.T) {
	for _, s := range []dialogue.Situation{
		dialogue.SituationGreeting, dialogue.SituationFarewell, dialogue.SituationExit,
		dialogue.SituationUnclear, dialogue.SituationNegation, dialogue.SituationContinueNoTask,
		dialogue.SituationQuestion, dialogue.SituationReflection, dialogue.SituationAskGrade,
		dialogue.SituationAskTopic, dialogue.SituationAskStartDate, dialogue.SituationPlanDone,
		dialogue.SituationScheduleDone, dialogue.SituationReviseNoChange, dialogue.SituationRevisionDone,
		dialogue.SituationPDFReady,
	} {
		assert.NotEmpty(t, situationPrompts[s], "situation %s", s)
	}
}
