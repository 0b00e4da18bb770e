package logging

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type toggleRequest struct {
	Enabled *bool `json:"enabled"`
}

type statusResponse struct {
	Enabled bool   `json:"enabled"`
	Level   string `json:"level"`
}

// RegisterRoutes mounts the runtime log toggle.
func RegisterRoutes(r chi.Router, l *Logger) {
	r.Get("/api/logs", func(w http.ResponseWriter, req *http.Request) {
		writeStatus(w, l)
	})

	r.Post("/api/logs", func(w http.ResponseWriter, req *http.Request) {
		var body toggleRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Enabled == nil {
			http.Error(w, `{"error":"campo enabled (boolean) é obrigatório"}`, http.StatusBadRequest)
			return
		}
		l.SetEnabled(*body.Enabled)
		writeStatus(w, l)
	})
}

func writeStatus(w http.ResponseWriter, l *Logger) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{Enabled: l.Enabled(), Level: l.Level().String()})
}
