package dialogue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/felipe-codebit/prototipo-zap/internal/archive"
	"github.com/felipe-codebit/prototipo-zap/internal/session"
)

// Controller runs the conversation: it owns no state of its own beyond its
// collaborators, everything per-session lives in the store.
type Controller struct {
	store      *session.Store
	classifier Classifier
	extractor  Extractor
	generator  Generator
	artifacts  ArtifactStore

	thresholds Thresholds
	pdfPath    string
	videoPath  string
	log        *zap.Logger

	handlers map[session.Intent]handlerFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithArtifactStore mirrors generated artifacts to a durable store.
func WithArtifactStore(a ArtifactStore) Option {
	return func(c *Controller) { c.artifacts = a }
}

// WithThresholds overrides DefaultThresholds.
func WithThresholds(t Thresholds) Option {
	return func(c *Controller) { c.thresholds = t }
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l.Named("dialogue") }
}

// WithMediaPaths sets the URL paths used in PDF and video side effects.
func WithMediaPaths(pdfPath, videoPath string) Option {
	return func(c *Controller) {
		c.pdfPath = pdfPath
		c.videoPath = videoPath
	}
}

// New wires a controller around a session store and the three oracles.
func New(store *session.Store, classifier Classifier, extractor Extractor, generator Generator, opts ...Option) *Controller {
	c := &Controller{
		store:      store,
		classifier: classifier,
		extractor:  extractor,
		generator:  generator,
		thresholds: DefaultThresholds(),
		pdfPath:    "/api/pdf",
		videoPath:  "/api/video",
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.handlers = map[session.Intent]handlerFunc{
		session.IntentLessonPlan:          (*Controller).handleLessonPlan,
		session.IntentWeeklySchedule:      (*Controller).handleWeeklySchedule,
		session.IntentRevisePlan:          (*Controller).handleRevisePlan,
		session.IntentQuestion:            (*Controller).handleQuestion,
		session.IntentPedagogicReflection: (*Controller).handleReflection,
		session.IntentGreeting:            (*Controller).handleGreeting,
		session.IntentFarewell:            (*Controller).handleFarewell,
		session.IntentExit:                (*Controller).handleExit,
		session.IntentContinue:            (*Controller).handleContinue,
		session.IntentUnclear:             (*Controller).handleUnclear,
	}
	return c
}

// turnState is what a handler gets to work with.
type turnState struct {
	id   string
	text string
	norm string
	// prev is the intent active before this turn was resolved.
	prev session.Intent
	// answering is the pending question this message answers, if any.
	answering string
	log       *zap.Logger
}

type handlerFunc func(c *Controller, ctx context.Context, t turnState) (Reply, error)

// ProcessMessage handles a text message. It never fails: any error becomes an
// apologetic reply.
func (c *Controller) ProcessMessage(ctx context.Context, sessionID, message string) Reply {
	return c.ProcessTurn(ctx, Turn{SessionID: sessionID, Text: message, Type: session.MessageText})
}

// ProcessTurn is ProcessMessage with control over how the turn is recorded.
func (c *Controller) ProcessTurn(ctx context.Context, turn Turn) (reply Reply) {
	end := c.store.BeginTurn(turn.SessionID)
	defer end()

	log := c.log.With(zap.String("session_id", turn.SessionID))
	defer func() {
		if r := recover(); r != nil {
			log.Error("processing_failed", zap.Any("panic", r), zap.Stack("stack"))
			reply = Reply{Text: apologyText}
			c.recordBot(turn.SessionID, reply)
		}
	}()

	if turn.Type == "" {
		turn.Type = session.MessageText
	}
	c.store.AppendMessage(turn.SessionID, session.Message{
		ID:     uuid.NewString(),
		Text:   turn.Text,
		Sender: session.SenderUser,
		Type:   turn.Type,
	})

	reply, err := c.route(ctx, turnState{id: turn.SessionID, text: turn.Text, norm: normalize(turn.Text), log: log})
	if err != nil {
		log.Error("processing_failed", zap.Error(err))
		reply = Reply{Text: apologyText}
	}
	if reply.Text == "" {
		reply.Text = Fallback(SituationUnclear)
	}
	reply.SideEffects.AudioVoice = turn.Voice

	c.recordBot(turn.SessionID, reply)
	log.Info("conversation",
		zap.Int("user_chars", len(turn.Text)),
		zap.Int("bot_chars", len(reply.Text)),
	)
	return reply
}

// recordBot appends the reply unless the session was closed by this turn.
func (c *Controller) recordBot(id string, r Reply) {
	if _, ok := c.store.Snapshot(id); !ok {
		return
	}
	m := session.Message{ID: uuid.NewString(), Text: r.Text, Sender: session.SenderBot, Type: session.MessageText}
	if r.SideEffects.Video != nil {
		m.Type = session.MessageVideo
		m.VideoURL = r.SideEffects.Video.URL
	}
	c.store.AppendMessage(id, m)
}

func (c *Controller) route(ctx context.Context, t turnState) (Reply, error) {
	switch kind, rule := detectCommand(t.norm); kind {
	case commandExit:
		t.log.Info("command", zap.String("rule", rule))
		return c.handleExit(ctx, t)
	case commandPDF:
		t.log.Info("command", zap.String("rule", rule))
		return c.handlePDFRequest(ctx, t)
	}

	cur := c.store.GetOrCreate(t.id)
	cand := c.classify(ctx, cur, t.text)
	t.log.Info("intent_detected",
		zap.String("intent", string(cand.Intent)),
		zap.Float64("confidence", cand.Confidence),
	)

	if cur.WaitingFor != "" && answersPending(cur.CurrentIntent) {
		negated := containsAny(t.norm, "nao quero", "cancela")
		breaks := negated || (cand.Intent != cur.CurrentIntent && cand.Confidence > c.thresholds.WaitingBreak)
		if !breaks {
			t.log.Info("intent_kept",
				zap.String("intent", string(cur.CurrentIntent)),
				zap.String("waiting_for", cur.WaitingFor),
			)
			t.prev = cur.CurrentIntent
			t.answering = cur.WaitingFor
			return c.dispatch(ctx, cur.CurrentIntent, t)
		}
		c.store.ClearWaitingFor(t.id)
		if negated {
			c.store.ResetKeepingHistory(t.id, session.AllArtifacts...)
		}
		cur = c.store.GetOrCreate(t.id)
	}

	intent, confidence, kept := ResolveIntent(cur, cand, c.thresholds.Override)
	if kept {
		t.log.Info("intent_kept", zap.String("intent", string(intent)), zap.Float64("candidate_confidence", cand.Confidence))
	}
	c.store.UpdateIntent(t.id, intent, confidence)
	t.prev = cur.CurrentIntent
	return c.dispatch(ctx, intent, t)
}

func (c *Controller) dispatch(ctx context.Context, intent session.Intent, t turnState) (Reply, error) {
	h, ok := c.handlers[intent]
	if !ok {
		h = (*Controller).handleUnclear
	}
	return h(c, ctx, t)
}

func (c *Controller) classify(ctx context.Context, cur session.Context, text string) Classification {
	cls, err := c.classifier.Classify(ctx, ClassifyRequest{
		Message:       text,
		History:       cur.RecentHistory(6),
		CurrentIntent: cur.CurrentIntent,
	})
	if err != nil {
		c.log.Warn("classifier failed", zap.String("session_id", cur.SessionID), zap.Error(err))
		return Classification{Intent: session.IntentUnclear}
	}
	if cls.Intent == "" {
		cls.Intent = session.IntentUnclear
	}
	cls.Confidence = min(max(cls.Confidence, 0), 1)
	return cls
}

func (c *Controller) extract(ctx context.Context, cur session.Context, text string, intent session.Intent) SlotUpdate {
	u, err := c.extractor.Extract(ctx, ExtractRequest{Message: text, Intent: intent, Collected: cur.Data})
	if err != nil {
		c.log.Warn("extractor failed", zap.String("session_id", cur.SessionID), zap.Error(err))
		return SlotUpdate{}
	}
	return u
}

// say generates text for a situation, falling back to canned copy.
func (c *Controller) say(ctx context.Context, situation Situation, gc GenerationContext) string {
	text, err := c.generator.Generate(ctx, situation, gc)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			c.log.Warn("generator failed", zap.String("situation", string(situation)), zap.Error(err))
		}
		return Fallback(situation)
	}
	return text
}

func (c *Controller) generationContext(t turnState) GenerationContext {
	cur := c.store.GetOrCreate(t.id)
	return GenerationContext{
		SessionID: t.id,
		Message:   t.text,
		Intent:    cur.CurrentIntent,
		History:   cur.RecentHistory(10),
		Data:      cur.Data,
		Lesson:    cur.Data.Lesson,
		Weekly:    cur.Data.Weekly,
	}
}

// GetContext returns a snapshot of the session, creating it if needed.
func (c *Controller) GetContext(sessionID string) session.Context {
	return c.store.GetOrCreate(sessionID)
}

// History returns the session's messages.
func (c *Controller) History(sessionID string) []session.Message {
	return c.store.History(sessionID)
}

// ClearContext forgets the session.
func (c *Controller) ClearContext(sessionID string) {
	c.store.Clear(sessionID)
}

// LatestPlan finds the most recent lesson plan for a session: the session's
// own artifact first, then the artifact store, then the bot history. A plan
// found outside the session is cached back into it, with its slot data when
// the archive kept it.
func (c *Controller) LatestPlan(ctx context.Context, sessionID string) (string, bool) {
	cur, exists := c.store.Snapshot(sessionID)
	if exists && cur.Data.Artifacts.LastPlanoContent != "" {
		return cur.Data.Artifacts.LastPlanoContent, true
	}

	var content string
	var data *session.LessonPlanSlots
	if c.artifacts != nil {
		rec, err := c.artifacts.Latest(ctx, sessionID, archive.KindLessonPlan)
		if err != nil {
			c.log.Warn("artifact lookup failed", zap.String("session_id", sessionID), zap.Error(err))
		} else if rec != nil {
			content = rec.Content
			data = lessonData(rec.Data)
		}
	}
	if content == "" && exists {
		content = planFromHistory(cur.History)
	}
	if content == "" {
		return "", false
	}
	if exists {
		if data != nil {
			c.store.SaveLessonPlan(sessionID, content, *data)
		} else {
			c.store.SetCollectedField(sessionID, string(session.ArtifactPlanContent), content)
		}
	}
	return content, true
}

// lessonData decodes archived slot data; nil when absent or empty.
func lessonData(raw json.RawMessage) *session.LessonPlanSlots {
	if len(raw) == 0 {
		return nil
	}
	var d session.LessonPlanSlots
	if err := json.Unmarshal(raw, &d); err != nil || d == (session.LessonPlanSlots{}) {
		return nil
	}
	return &d
}

// planFromHistory scans bot messages newest first for a delivered plan.
func planFromHistory(history []session.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m.Sender != session.SenderBot {
			continue
		}
		if idx := strings.Index(m.Text, PlanCompletionMarker); idx >= 0 {
			plan := strings.TrimSpace(m.Text[:idx])
			return strings.TrimSpace(strings.TrimSuffix(plan, "---"))
		}
		if strings.Contains(m.Text, "### Plano de Aula") {
			return strings.TrimSpace(m.Text)
		}
	}
	return ""
}

func (c *Controller) pdfLink(sessionID string) *PDFRef {
	return &PDFRef{
		URL:      fmt.Sprintf("%s?sessionId=%s", c.pdfPath, url.QueryEscape(sessionID)),
		Filename: "plano-aula.pdf",
	}
}
