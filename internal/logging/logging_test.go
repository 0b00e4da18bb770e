package logging

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap/zapcore"
)

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New("verbose", false); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestToggle(t *testing.T) {
	l, err := New("debug", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !l.Enabled() {
		t.Fatal("logger should start enabled")
	}

	l.SetEnabled(false)
	if l.Enabled() || l.Level() != zapcore.ErrorLevel {
		t.Errorf("disabled logger at %s", l.Level())
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be suppressed while disabled")
	}

	l.SetEnabled(true)
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be back after enabling")
	}
}

func TestRoutes(t *testing.T) {
	l, err := New("info", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := chi.NewRouter()
	RegisterRoutes(r, l)

	tests := []struct {
		name        string
		method      string
		body        string
		wantCode    int
		wantEnabled bool
	}{
		{"status", http.MethodGet, "", http.StatusOK, true},
		{"disable", http.MethodPost, `{"enabled":false}`, http.StatusOK, false},
		{"missing field", http.MethodPost, `{}`, http.StatusBadRequest, false},
		{"enable", http.MethodPost, `{"enabled":true}`, http.StatusOK, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/logs", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if w.Code != http.StatusOK {
				return
			}
			var resp statusResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Enabled != tt.wantEnabled {
				t.Errorf("enabled = %v, want %v", resp.Enabled, tt.wantEnabled)
			}
		})
	}
}
