package dialogue

import (
	"context"

	"github.com/felipe-codebit/prototipo-zap/internal/archive"
	"github.com/felipe-codebit/prototipo-zap/internal/session"
)

// Reply is what the assistant answers for one inbound message.
type Reply struct {
	Text        string      `json:"text"`
	SideEffects SideEffects `json:"sideEffects"`
}

// SideEffects are presentation hints that travel next to the text.
type SideEffects struct {
	Video      *VideoRef `json:"video,omitempty"`
	PDF        *PDFRef   `json:"pdf,omitempty"`
	AudioVoice string    `json:"audioVoice,omitempty"`
}

// VideoRef points at a clip the client should play with the reply.
type VideoRef struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// PDFRef is a download link for the last lesson plan.
type PDFRef struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Turn is one inbound message.
type Turn struct {
	SessionID string
	Text      string
	Type      session.MessageType
	// Voice asks the transport to speak the reply with this voice.
	Voice string
}

// Classification is a classifier's guess for one message.
type Classification struct {
	Intent     session.Intent
	Confidence float64
}

// ClassifyRequest carries what a classifier may look at.
type ClassifyRequest struct {
	Message       string
	History       []session.Message
	CurrentIntent session.Intent
}

// Classifier maps a message onto an intent.
type Classifier interface {
	Classify(ctx context.Context, req ClassifyRequest) (Classification, error)
}

// ExtractRequest carries the message and what was already collected.
type ExtractRequest struct {
	Message   string
	Intent    session.Intent
	Collected session.CollectedData
}

// SlotUpdate holds only the fields an extractor found; empty means not found.
type SlotUpdate struct {
	Lesson session.LessonPlanSlots
	Weekly session.WeeklyScheduleSlots
}

// Extractor pulls slot values out of free text.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) (SlotUpdate, error)
}

// GenerationContext is everything a generator may use to write a reply.
type GenerationContext struct {
	SessionID string
	Message   string
	Intent    session.Intent
	History   []session.Message
	Data      session.CollectedData
	Lesson    session.LessonPlanSlots
	Weekly    session.WeeklyScheduleSlots
	// Field is the slot being asked for, when the situation is a question.
	Field string
}

// Generator writes free text for a situation.
type Generator interface {
	Generate(ctx context.Context, situation Situation, gc GenerationContext) (string, error)
}

// ArtifactStore keeps generated artifacts beyond the session.
type ArtifactStore interface {
	Save(ctx context.Context, rec *archive.Record) error
	Latest(ctx context.Context, sessionID string, kind archive.Kind) (*archive.Record, error)
}
