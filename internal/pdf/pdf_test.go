package pdf

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

const samplePlan = `### Plano de Aula: Frações no cotidiano

**Ano escolar:** 5º ano
**Nível de dificuldade:** médio

1. Objetivo geral
Compreender frações em situações do dia a dia.`

func TestExtractInfo(t *testing.T) {
	now := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	got := ExtractInfo(samplePlan, now)

	want := PlanInfo{Ano: "5º ano", Tema: "Frações no cotidiano", Nivel: "médio", Data: "07/03/2025"}
	if got != want {
		t.Errorf("ExtractInfo = %+v, want %+v", got, want)
	}
}

func TestExtractInfoFallbacks(t *testing.T) {
	got := ExtractInfo("Plano para o Ensino Médio\nTema: Revolução Industrial", time.Now())
	if got.Ano != "Ensino Médio" || got.Tema != "Revolução Industrial" || got.Nivel != "" {
		t.Errorf("ExtractInfo = %+v", got)
	}
}

func TestBuildDocument(t *testing.T) {
	doc, err := BuildDocument(samplePlan+"\n\n<script>alert(1)</script>", PlanInfo{Ano: "5º ano", Data: "07/03/2025"})
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	for _, want := range []string{
		"<title>Plano de Aula - 5º ano</title>",
		"<h3>Plano de Aula: Frações no cotidiano</h3>",
		"<strong>Ano escolar:</strong>",
		"@page { size: A4; margin: 2cm; }",
		"Não especificado",
		"07/03/2025",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(doc, "<script>alert(1)</script>") {
		t.Error("raw html from the plan must not reach the document")
	}
}

type fakeRenderer struct {
	calls int
	html  string
	err   error
}

func (f *fakeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	f.calls++
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

type fakePlans map[string]string

func (f fakePlans) LatestPlan(ctx context.Context, id string) (string, bool) {
	p, ok := f[id]
	return p, ok
}

func setupPDF(t *testing.T, r *fakeRenderer, plans fakePlans) *chi.Mux {
	t.Helper()
	mux := chi.NewRouter()
	RegisterRoutes(mux, NewService(r, plans, nil))
	return mux
}

func TestGetPDF(t *testing.T) {
	r := &fakeRenderer{}
	mux := setupPDF(t, r, fakePlans{"s1": samplePlan})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pdf?sessionId=s1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "plano-aula.pdf") {
		t.Errorf("Content-Disposition = %q", w.Header().Get("Content-Disposition"))
	}
	if !strings.Contains(r.html, "Frações no cotidiano") {
		t.Error("renderer did not receive the plan")
	}
}

func TestGetPDFWithoutPlan(t *testing.T) {
	r := &fakeRenderer{}
	mux := setupPDF(t, r, fakePlans{})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pdf?sessionId=ghost", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if r.calls != 0 {
		t.Error("renderer must not run without a plan")
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pdf", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without sessionId, got %d", w.Code)
	}
}

func TestPostPDF(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{"renders given content", `{"sessionId":"s1","planoContent":"# Plano"}`, nil, http.StatusOK},
		{"missing session", `{"planoContent":"# Plano"}`, nil, http.StatusBadRequest},
		{"missing content", `{"sessionId":"s1"}`, nil, http.StatusBadRequest},
		{"renderer failure", `{"sessionId":"s1","planoContent":"# Plano"}`, errors.New("chrome crashed"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupPDF(t, &fakeRenderer{err: tt.err}, fakePlans{})
			req := httptest.NewRequest(http.MethodPost, "/api/pdf", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}
}
