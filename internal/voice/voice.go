// Package voice handles spoken input and output: Whisper transcription of
// recorded messages and text-to-speech for replies.
package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/felipe-codebit/prototipo-zap/internal/dialogue"
	"github.com/felipe-codebit/prototipo-zap/internal/llm"
)

var (
	ErrEmptyText    = errors.New("text is required")
	ErrTextTooLong  = errors.New("text exceeds the speech limit")
	ErrInvalidVoice = errors.New("unknown voice")
	ErrNoSpeech     = errors.New("no speech recognized")
)

const (
	DefaultMaxAudioBytes = 25 << 20
	DefaultMaxTTSChars   = 4096
	DefaultVoice         = "nova"
	// TranscriptionLanguage is the ISO-639-1 hint sent to Whisper.
	TranscriptionLanguage = "pt"
)

// Processor runs one conversational turn.
type Processor interface {
	ProcessTurn(ctx context.Context, turn dialogue.Turn) dialogue.Reply
}

// Service wires the speech oracles to the dialogue controller.
type Service struct {
	transcriber llm.Transcriber
	synthesizer llm.Synthesizer
	chat        Processor

	maxAudioBytes int64
	maxTTSChars   int
	defaultVoice  string
	log           *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLimits overrides the upload and text limits. Zero keeps the default.
func WithLimits(maxAudioBytes int64, maxTTSChars int) Option {
	return func(s *Service) {
		if maxAudioBytes > 0 {
			s.maxAudioBytes = maxAudioBytes
		}
		if maxTTSChars > 0 {
			s.maxTTSChars = maxTTSChars
		}
	}
}

// WithDefaultVoice sets the voice used when a request names none.
func WithDefaultVoice(v string) Option {
	return func(s *Service) {
		if v != "" {
			s.defaultVoice = v
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l.Named("voice") }
}

// NewService creates a voice service.
func NewService(t llm.Transcriber, sy llm.Synthesizer, chat Processor, opts ...Option) *Service {
	s := &Service{
		transcriber:   t,
		synthesizer:   sy,
		chat:          chat,
		maxAudioBytes: DefaultMaxAudioBytes,
		maxTTSChars:   DefaultMaxTTSChars,
		defaultVoice:  DefaultVoice,
		log:           zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Transcribe returns the text spoken in audio.
func (s *Service) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	text, err := s.transcriber.Transcribe(ctx, audio, filename, TranscriptionLanguage)
	if err != nil {
		return "", fmt.Errorf("transcribing %s: %w", filename, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// Synthesize validates text and voice and returns mp3 audio. An empty voice
// uses the default one.
func (s *Service) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if utf8.RuneCountInString(text) > s.maxTTSChars {
		return nil, ErrTextTooLong
	}
	if voice == "" {
		voice = s.defaultVoice
	}
	if !llm.ValidVoice(voice) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVoice, voice)
	}
	audio, err := s.synthesizer.Synthesize(ctx, text, voice)
	if err != nil {
		return nil, fmt.Errorf("synthesizing speech: %w", err)
	}
	return audio, nil
}
