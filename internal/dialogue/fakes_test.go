package dialogue

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/felipe-codebit/prototipo-zap/internal/session"
)

type fakeClassifier struct {
	mu      sync.Mutex
	answers map[string]Classification
	err     error
	calls   int
}

func (f *fakeClassifier) Classify(ctx context.Context, req ClassifyRequest) (Classification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return Classification{}, f.err
	}
	if c, ok := f.answers[strings.ToLower(strings.TrimSpace(req.Message))]; ok {
		return c, nil
	}
	return Classification{Intent: session.IntentUnclear, Confidence: 0.2}, nil
}

func (f *fakeClassifier) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeExtractor struct {
	fn func(req ExtractRequest) SlotUpdate
}

func (f *fakeExtractor) Extract(ctx context.Context, req ExtractRequest) (SlotUpdate, error) {
	if f.fn == nil {
		return SlotUpdate{}, nil
	}
	return f.fn(req), nil
}

type fakeGenerator struct {
	mu    sync.Mutex
	calls []Situation
	last  map[Situation]GenerationContext
	fail  map[Situation]bool
	panic bool
}

func (f *fakeGenerator) Generate(ctx context.Context, s Situation, gc GenerationContext) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panic {
		panic("generator exploded")
	}
	f.calls = append(f.calls, s)
	if f.last == nil {
		f.last = make(map[Situation]GenerationContext)
	}
	f.last[s] = gc
	if f.fail[s] {
		return "", errors.New("upstream timeout")
	}
	switch s {
	case SituationLessonPlan:
		return "### Plano de Aula: " + gc.Lesson.Tema + " (" + gc.Lesson.Ano + ", " + gc.Lesson.NivelDificuldade + ")", nil
	case SituationWeeklySchedule:
		return "Semana a partir de " + gc.Weekly.DataInicio, nil
	}
	return "gen:" + string(s), nil
}

func (f *fakeGenerator) Calls() []Situation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Situation(nil), f.calls...)
}

func (f *fakeGenerator) Called(s Situation) bool {
	for _, c := range f.Calls() {
		if c == s {
			return true
		}
	}
	return false
}

// keywordExtractor recognizes the handful of values used in tests.
func keywordExtractor() *fakeExtractor {
	return &fakeExtractor{fn: func(req ExtractRequest) SlotUpdate {
		var u SlotUpdate
		msg := strings.ToLower(req.Message)
		if strings.Contains(msg, "5º ano") {
			u.Lesson.Ano = "5º ano"
		}
		if strings.Contains(msg, "frações") {
			u.Lesson.Tema = "frações"
		}
		if strings.Contains(msg, "segunda") {
			u.Weekly.DataInicio = "segunda-feira"
		}
		return u
	}}
}
