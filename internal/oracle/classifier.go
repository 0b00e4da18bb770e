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

// DefaultTrustThreshold is the confidence above which the model's answer is
// used without looking at the shortcut table.
const DefaultTrustThreshold = 0.65

// Classifier asks an LLM for the intent and falls back to keyword scoring
// when the call fails.
type Classifier struct {
	provider llm.Provider
	model    string
	trust    float64
	log      *zap.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithTrustThreshold overrides DefaultTrustThreshold.
func WithTrustThreshold(v float64) ClassifierOption {
	return func(c *Classifier) { c.trust = v }
}

// WithClassifierLogger sets the logger.
func WithClassifierLogger(l *zap.Logger) ClassifierOption {
	return func(c *Classifier) { c.log = l.Named("classifier") }
}

// NewClassifier creates a classifier. An empty model uses the provider default.
func NewClassifier(provider llm.Provider, model string, opts ...ClassifierOption) *Classifier {
	c := &Classifier{provider: provider, model: model, trust: DefaultTrustThreshold, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// shortcuts are unambiguous one-word messages, checked when the model is unsure.
var shortcuts = map[string]dialogue.Classification{
	"oi":       {Intent: session.IntentGreeting, Confidence: 1},
	"olá":      {Intent: session.IntentGreeting, Confidence: 1},
	"ola":      {Intent: session.IntentGreeting, Confidence: 1},
	"oii":      {Intent: session.IntentGreeting, Confidence: 1},
	"eae":      {Intent: session.IntentGreeting, Confidence: 1},
	"tchau":    {Intent: session.IntentFarewell, Confidence: 1},
	"obrigado": {Intent: session.IntentFarewell, Confidence: 1},
	"obrigada": {Intent: session.IntentFarewell, Confidence: 1},
	"valeu":    {Intent: session.IntentFarewell, Confidence: 1},
	"bye":      {Intent: session.IntentFarewell, Confidence: 1},
	"ok":       {Intent: session.IntentContinue, Confidence: 0.9},
	"sim":      {Intent: session.IntentContinue, Confidence: 0.9},
	"certo":    {Intent: session.IntentContinue, Confidence: 0.9},
	"beleza":   {Intent: session.IntentContinue, Confidence: 0.9},
	"show":     {Intent: session.IntentContinue, Confidence: 0.9},
	"dale":     {Intent: session.IntentContinue, Confidence: 0.9},
}

type classifierReply struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Classify never returns an error: a failed model call degrades to keyword
// scoring.
func (c *Classifier) Classify(ctx context.Context, req dialogue.ClassifyRequest) (dialogue.Classification, error) {
	msg := strings.ToLower(strings.TrimSpace(req.Message))

	got, err := c.ask(ctx, req)
	if err != nil {
		c.log.Warn("llm classification failed, using keywords", zap.Error(err))
		return KeywordClassify(req.Message), nil
	}
	if got.Confidence >= c.trust {
		return got, nil
	}
	if s, ok := shortcuts[msg]; ok {
		return s, nil
	}
	return got, nil
}

func (c *Classifier) ask(ctx context.Context, req dialogue.ClassifyRequest) (dialogue.Classification, error) {
	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model:       c.model,
		Messages:    buildClassifyMessages(req),
		MaxTokens:   100,
		Temperature: 0.1,
		JSONMode:    true,
	})
	if err != nil {
		return dialogue.Classification{}, fmt.Errorf("llm completion: %w", err)
	}
	logUsage(c.log, "classify", resp)

	var out classifierReply
	if err := parseJSON(resp.Content, &out); err != nil {
		return dialogue.Classification{}, err
	}
	return dialogue.Classification{
		Intent:     session.ParseIntent(out.Intent),
		Confidence: min(max(out.Confidence, 0), 1),
	}, nil
}

func logUsage(log *zap.Logger, call string, resp *llm.CompletionResponse) {
	log.Debug("llm call",
		zap.String("call", call),
		zap.String("model", resp.Model),
		zap.Int("input_tokens", resp.InputTokens),
		zap.Int("output_tokens", resp.OutputTokens),
		zap.Float64("cost_usd", llm.EstimateCost(resp.Model, resp.InputTokens, resp.OutputTokens)),
	)
}
