package voice

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/felipe-codebit/prototipo-zap/internal/dialogue"
	"github.com/felipe-codebit/prototipo-zap/internal/llm"
	"github.com/felipe-codebit/prototipo-zap/internal/session"
)

const transcriptionFailedText = "Não consegui entender o áudio. Pode escrever sua mensagem?"

// RegisterRoutes mounts /api/audio and /api/tts.
func RegisterRoutes(r chi.Router, s *Service) {
	r.Post("/api/audio", s.handleAudio)
	r.Get("/api/audio", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":          "API de áudio funcionando",
			"supportedFormats": []string{"webm", "wav", "mp3", "m4a", "ogg"},
			"maxBytes":         s.maxAudioBytes,
		})
	})
	r.Post("/api/tts", s.handleTTS)
	r.Get("/api/tts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": "tts", "voices": llm.Voices})
	})
}

type audioResponse struct {
	Transcription string             `json:"transcription"`
	Response      string             `json:"response"`
	SessionID     string             `json:"sessionId"`
	Timestamp     time.Time          `json:"timestamp"`
	Video         *dialogue.VideoRef `json:"video,omitempty"`
	PDF           *dialogue.PDFRef   `json:"pdf,omitempty"`
}

func (s *Service) handleAudio(w http.ResponseWriter, r *http.Request) {
	// Multipart framing adds a little on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxAudioBytes+1<<20)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "Arquivo de áudio muito grande.")
			return
		}
		writeError(w, http.StatusBadRequest, "formulário inválido")
		return
	}
	defer r.MultipartForm.RemoveAll()

	sessionID := r.FormValue("sessionId")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Arquivo de áudio é obrigatório")
		return
	}
	defer file.Close()

	switch {
	case header.Size == 0:
		writeError(w, http.StatusBadRequest, "Arquivo de áudio está vazio")
		return
	case header.Size > s.maxAudioBytes:
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Arquivo de áudio muito grande. Máximo %dMB.", s.maxAudioBytes>>20))
		return
	}

	log := s.log.With(zap.String("session_id", sessionID))
	text, err := s.Transcribe(r.Context(), file, header.Filename)
	if err != nil {
		log.Warn("transcription failed", zap.Int64("bytes", header.Size), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": transcriptionFailedText, "sessionId": sessionID})
		return
	}
	log.Info("audio transcribed", zap.Int64("bytes", header.Size), zap.Int("chars", len(text)))

	reply := s.chat.ProcessTurn(r.Context(), dialogue.Turn{SessionID: sessionID, Text: text, Type: session.MessageAudio})
	writeJSON(w, http.StatusOK, audioResponse{
		Transcription: text,
		Response:      reply.Text,
		SessionID:     sessionID,
		Timestamp:     time.Now(),
		Video:         reply.SideEffects.Video,
		PDF:           reply.SideEffects.PDF,
	})
}

type ttsRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"sessionId"`
	Voice     string `json:"voice"`
}

func (s *Service) handleTTS(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	audio, err := s.Synthesize(r.Context(), req.Text, req.Voice)
	switch {
	case errors.Is(err, ErrEmptyText):
		writeError(w, http.StatusBadRequest, "Texto é obrigatório")
		return
	case errors.Is(err, ErrTextTooLong):
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Texto muito longo. Máximo de %d caracteres.", s.maxTTSChars))
		return
	case errors.Is(err, ErrInvalidVoice):
		writeError(w, http.StatusBadRequest, "Voz inválida. Use uma das seguintes: "+strings.Join(llm.Voices, ", "))
		return
	case err != nil:
		s.log.Error("tts failed", zap.String("session_id", req.SessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Não foi possível gerar o áudio")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", `inline; filename="response.mp3"`)
	w.Header().Set("X-Session-Id", req.SessionID)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
