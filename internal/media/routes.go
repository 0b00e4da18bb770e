// Package media serves the static clips the chat client plays.
package media

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// videos maps the public video type to its file name.
var videos = map[string]string{
	"saudacao": "video-saudacao.mp4",
}

// RegisterRoutes mounts GET /api/video?type=<type>, serving files from dir.
func RegisterRoutes(r chi.Router, dir string, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("media")

	r.Get("/api/video", func(w http.ResponseWriter, r *http.Request) {
		name, ok := videos[r.URL.Query().Get("type")]
		if !ok {
			writeError(w, http.StatusBadRequest, "Tipo de vídeo não especificado")
			return
		}

		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, "Arquivo de vídeo não encontrado")
			return
		}
		if err != nil {
			log.Error("opening video", zap.String("path", path), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Erro ao carregar vídeo")
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Erro ao carregar vídeo")
			return
		}
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Cache-Control", "public, max-age=31536000")
		// ServeContent handles Range requests for seeking.
		http.ServeContent(w, r, name, info.ModTime(), f)
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
