package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/dviselman/pconsole/internal/assistant"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Assistant answers chat turns. The assistant Engine satisfies it.
type Assistant interface {
	Ask(ctx context.Context, sessionID, userID, content string) (*assistant.Reply, error)
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type      string `json:"type"`       // "message"
	SessionID string `json:"session_id"` // empty for new sessions
	Content   string `json:"content"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type        string `json:"type"` // "response" or "error"
	SessionID   string `json:"session_id"`
	Content     string `json:"content"`
	ContentHTML string `json:"content_html,omitempty"`
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("dashboard: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("dashboard: websocket read: %v", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			d.sendError(conn, "", "invalid message format")
			continue
		}

		if req.Content == "" {
			d.sendError(conn, req.SessionID, "content is required")
			continue
		}

		switch req.Type {
		case "message":
			d.handleChatMessage(conn, r, req)
		default:
			d.sendError(conn, req.SessionID, "unknown message type: "+req.Type)
		}
	}
}

func (d *Dashboard) handleChatMessage(conn *websocket.Conn, r *http.Request, req chatRequest) {
	if d.assistant == nil {
		d.sendError(conn, req.SessionID, "LLM provider not configured")
		return
	}

	reply, err := d.assistant.Ask(r.Context(), req.SessionID, "dashboard", req.Content)
	if err != nil {
		d.sendError(conn, req.SessionID, "chat failed: "+err.Error())
		return
	}

	d.sendResponse(conn, chatResponse{
		Type:        "response",
		SessionID:   reply.SessionID,
		Content:     reply.Answer,
		ContentHTML: reply.AnswerHTML,
	})
}

func (d *Dashboard) sendResponse(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("dashboard: websocket write: %v", err)
	}
}

func (d *Dashboard) sendError(conn *websocket.Conn, sessionID, message string) {
	resp := chatResponse{
		Type:      "error",
		SessionID: sessionID,
		Content:   message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("dashboard: websocket write error: %v", err)
	}
}
