package dialogue

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/felipe-codebit/prototipo-zap/internal/session"
)

// Speaker turns reply text into mp3 audio for clients that asked for it.
type Speaker interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// maxSpeechChars is the longest text the speech API accepts.
const maxSpeechChars = 4096

type chatRequest struct {
	Message       string `json:"message"`
	SessionID     string `json:"sessionId"`
	GenerateAudio bool   `json:"generateAudio"`
	Voice         string `json:"voice"`
}

type chatResponse struct {
	Response  string    `json:"response"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
	Video     *VideoRef `json:"video,omitempty"`
	PDF       *PDFRef   `json:"pdf,omitempty"`
	AudioURL  string    `json:"audioUrl,omitempty"`
}

type contextResponse struct {
	SessionID           string                `json:"sessionId"`
	CurrentIntent       session.Intent        `json:"currentIntent"`
	IntentConfidence    float64               `json:"intentConfidence"`
	CollectedData       session.CollectedData `json:"collectedData"`
	WaitingFor          string                `json:"waitingFor,omitempty"`
	ConversationHistory []session.Message     `json:"conversationHistory"`
	LastActivity        time.Time             `json:"lastActivity"`
}

// RegisterRoutes mounts the chat, context and websocket endpoints. speaker
// may be nil, in which case audio requests are answered with text only.
func RegisterRoutes(r chi.Router, c *Controller, speaker Speaker) {
	h := &routes{c: c, speaker: speaker, log: c.log}

	r.Post("/api/chat", h.chat)
	r.Get("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "API de chat funcionando"})
	})
	r.Get("/api/context", h.getContext)
	r.Delete("/api/context", h.clearContext)
	r.Get("/ws/chat", h.serveWS)
}

type routes struct {
	c       *Controller
	speaker Speaker
	log     *zap.Logger
}

func (h *routes) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "Mensagem é obrigatória")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	turn := Turn{SessionID: req.SessionID, Text: req.Message, Type: session.MessageText}
	if req.GenerateAudio {
		turn.Voice = req.Voice
		if turn.Voice == "" {
			turn.Voice = "nova"
		}
	}
	reply := h.c.ProcessTurn(r.Context(), turn)

	resp := chatResponse{
		Response:  reply.Text,
		SessionID: req.SessionID,
		Timestamp: time.Now(),
		Video:     reply.SideEffects.Video,
		PDF:       reply.SideEffects.PDF,
	}
	if reply.SideEffects.AudioVoice != "" && h.speaker != nil {
		resp.AudioURL = h.speak(r.Context(), req.SessionID, reply.Text, reply.SideEffects.AudioVoice)
	}
	writeJSON(w, http.StatusOK, resp)
}

// speak returns a data URL, or "" when synthesis failed.
func (h *routes) speak(ctx context.Context, sessionID, text, voice string) string {
	if runes := []rune(text); len(runes) > maxSpeechChars {
		text = string(runes[:maxSpeechChars])
	}
	audio, err := h.speaker.Synthesize(ctx, text, voice)
	if err != nil {
		h.log.Warn("speech synthesis failed", zap.String("session_id", sessionID), zap.Error(err))
		return ""
	}
	return "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio)
}

func (h *routes) getContext(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("sessionId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "SessionId é obrigatório")
		return
	}
	cur := h.c.GetContext(id)
	writeJSON(w, http.StatusOK, contextResponse{
		SessionID:           cur.SessionID,
		CurrentIntent:       cur.CurrentIntent,
		IntentConfidence:    cur.IntentConfidence,
		CollectedData:       cur.Data,
		WaitingFor:          cur.WaitingFor,
		ConversationHistory: cur.History,
		LastActivity:        cur.LastActivity,
	})
}

func (h *routes) clearContext(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("sessionId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "SessionId é obrigatório")
		return
	}
	h.c.ClearContext(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Contexto limpo com sucesso",
		"sessionId": id,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
