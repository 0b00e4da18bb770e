package pdf

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRoutes mounts GET and POST /api/pdf.
func RegisterRoutes(r chi.Router, s *Service) {
	r.Get("/api/pdf", s.handleLatest)
	r.Post("/api/pdf", s.handleContent)
}

func (s *Service) handleLatest(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("sessionId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "SessionId é obrigatório")
		return
	}
	out, err := s.RenderLatest(r.Context(), id)
	s.respond(w, id, out, err)
}

type contentRequest struct {
	SessionID    string `json:"sessionId"`
	PlanoContent string `json:"planoContent"`
}

func (s *Service) handleContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "SessionId é obrigatório")
		return
	}
	if req.PlanoContent == "" {
		writeError(w, http.StatusBadRequest, "Conteúdo do plano é obrigatório")
		return
	}
	out, err := s.Render(r.Context(), req.PlanoContent)
	s.respond(w, req.SessionID, out, err)
}

func (s *Service) respond(w http.ResponseWriter, sessionID string, out []byte, err error) {
	switch {
	case errors.Is(err, ErrNoPlan):
		writeError(w, http.StatusNotFound, "Plano de aula não encontrado. Gere um plano de aula primeiro!")
		return
	case err != nil:
		s.log.Error("pdf generation failed", zap.String("session_id", sessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Falha ao gerar PDF")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="plano-aula.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
