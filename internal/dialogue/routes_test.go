package dialogue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type fakeSpeaker struct {
	voice string
	text  string
	err   error
}

func (f *fakeSpeaker) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	f.voice, f.text = voice, text
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3"), nil
}

func setupRouter(t *testing.T, speaker Speaker) (*chi.Mux, *testRig) {
	t.Helper()
	rig := setupController(t, lessonAnswers)
	r := chi.NewRouter()
	RegisterRoutes(r, rig.c, speaker)
	return r, rig
}

func postChat(t *testing.T, r http.Handler, body string) (*httptest.ResponseRecorder, chatResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp chatResponse
	if w.Code == http.StatusOK {
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
	return w, resp
}

func TestChatEndpoint(t *testing.T) {
	r, _ := setupRouter(t, nil)

	w, resp := postChat(t, r, `{"message":"oi","sessionId":"abc"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp.Response != "gen:saudacao" || resp.SessionID != "abc" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Video == nil || resp.Video.URL != "/api/video?type=saudacao" {
		t.Errorf("expected greeting video, got %+v", resp.Video)
	}
	if resp.AudioURL != "" {
		t.Error("audio must not be produced without a speaker")
	}
}

func TestChatEndpointAssignsSession(t *testing.T) {
	r, _ := setupRouter(t, nil)
	_, resp := postChat(t, r, `{"message":"oi"}`)
	if resp.SessionID == "" {
		t.Error("expected a generated session id")
	}
}

func TestChatEndpointValidation(t *testing.T) {
	r, _ := setupRouter(t, nil)
	for _, body := range []string{`{"sessionId":"abc"}`, `{not json`} {
		w, _ := postChat(t, r, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
		var e map[string]string
		json.NewDecoder(w.Body).Decode(&e)
		if e["error"] == "" {
			t.Errorf("body %s: missing error message", body)
		}
	}
}

func TestChatEndpointAudio(t *testing.T) {
	sp := &fakeSpeaker{}
	r, _ := setupRouter(t, sp)

	_, resp := postChat(t, r, `{"message":"oi","sessionId":"abc","generateAudio":true}`)
	if !strings.HasPrefix(resp.AudioURL, "data:audio/mpeg;base64,") {
		t.Errorf("audioUrl = %q", resp.AudioURL)
	}
	if sp.voice != "nova" || sp.text != "gen:saudacao" {
		t.Errorf("speaker got voice=%q text=%q", sp.voice, sp.text)
	}

	sp.err = errors.New("quota")
	_, resp = postChat(t, r, `{"message":"oi","sessionId":"abc","generateAudio":true,"voice":"echo"}`)
	if resp.AudioURL != "" || resp.Response == "" {
		t.Errorf("failed synthesis should still answer with text: %+v", resp)
	}
}

func TestContextEndpoints(t *testing.T) {
	r, rig := setupRouter(t, nil)
	rig.c.ProcessMessage(context.Background(), "abc", "quero um plano de aula")

	req := httptest.NewRequest(http.MethodGet, "/api/context?sessionId=abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got contextResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.CurrentIntent != "plano_aula" || got.WaitingFor != "ano" || len(got.ConversationHistory) != 2 {
		t.Errorf("unexpected context: %+v", got)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/context?sessionId=abc", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if rig.store.Len() != 0 {
		t.Error("session should be cleared")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/context", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without sessionId, got %d", w.Code)
	}
}

func TestWebSocketChat(t *testing.T) {
	r, rig := setupRouter(t, nil)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	exchange := func(req wsRequest) wsResponse {
		t.Helper()
		if err := conn.WriteJSON(req); err != nil {
			t.Fatalf("write: %v", err)
		}
		var resp wsResponse
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("read: %v", err)
		}
		return resp
	}

	resp := exchange(wsRequest{Type: "message", Content: "oi"})
	if resp.Type != "response" || resp.Content != "gen:saudacao" || resp.SessionID == "" {
		t.Errorf("unexpected response: %+v", resp)
	}
	id := resp.SessionID

	resp = exchange(wsRequest{Type: "message", SessionID: id})
	if resp.Type != "error" {
		t.Errorf("empty content should be an error, got %+v", resp)
	}

	resp = exchange(wsRequest{Type: "ping", SessionID: id})
	if resp.Type != "error" {
		t.Errorf("unknown type should be an error, got %+v", resp)
	}

	resp = exchange(wsRequest{Type: "clear", SessionID: id})
	if resp.Type != "cleared" {
		t.Errorf("expected cleared, got %+v", resp)
	}
	if rig.store.Len() != 0 {
		t.Error("session should be cleared")
	}
}
