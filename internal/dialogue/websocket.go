package dialogue

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type      string `json:"type"`       // "message" or "clear"
	SessionID string `json:"session_id"` // empty for new sessions
	Content   string `json:"content"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type      string    `json:"type"` // "response", "cleared" or "error"
	SessionID string    `json:"session_id"`
	Content   string    `json:"content"`
	Video     *VideoRef `json:"video,omitempty"`
	PDF       *PDFRef   `json:"pdf,omitempty"`
}

func (h *routes) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			h.send(conn, wsResponse{Type: "error", Content: "formato de mensagem inválido"})
			continue
		}

		switch req.Type {
		case "message":
			if req.Content == "" {
				h.send(conn, wsResponse{Type: "error", SessionID: req.SessionID, Content: "content é obrigatório"})
				continue
			}
			if req.SessionID == "" {
				req.SessionID = uuid.NewString()
			}
			reply := h.c.ProcessMessage(r.Context(), req.SessionID, req.Content)
			h.send(conn, wsResponse{
				Type:      "response",
				SessionID: req.SessionID,
				Content:   reply.Text,
				Video:     reply.SideEffects.Video,
				PDF:       reply.SideEffects.PDF,
			})
		case "clear":
			h.c.ClearContext(req.SessionID)
			h.send(conn, wsResponse{Type: "cleared", SessionID: req.SessionID})
		default:
			h.send(conn, wsResponse{Type: "error", SessionID: req.SessionID, Content: "tipo de mensagem desconhecido: " + req.Type})
		}
	}
}

func (h *routes) send(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		h.log.Warn("websocket write", zap.Error(err))
	}
}
