package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"valentine/internal/app"
	"valentine/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The API is already permissive-CORS; the websocket follows suit.
	CheckOrigin: func(*http.Request) bool { return true },
}

type wsFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// handleWebsocket upgrades the connection, joins the caller's room and
// serves client events until disconnect. The send_message event goes
// through the same application method as the HTTP endpoint, so guards and
// side effects are identical on both paths.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	user, err := s.app.Authenticate(sessionToken(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		slog.Debug("websocket upgrade failed", "user", user.Username, "error", err)
		return
	}
	conn := s.hub.Join(user.Username, ws)
	defer func() {
		s.hub.Leave(user.Username, conn)
		ws.Close()
	}()

	_ = s.hub.Send(conn, app.EventConnectionResponse, map[string]string{"data": "Connected!"})

	for {
		var frame wsFrame
		if err := ws.ReadJSON(&frame); err != nil {
			return
		}
		switch frame.Event {
		case "send_message":
			s.wsSendMessage(conn, user.Username, frame.Data)
		default:
			_ = s.hub.Send(conn, app.EventError, map[string]string{"message": "Unknown event"})
		}
	}
}

func (s *Server) wsSendMessage(conn *realtime.Conn, from string, raw json.RawMessage) {
	var payload struct {
		To      string `json:"to"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.To == "" || payload.Content == "" {
		_ = s.hub.Send(conn, app.EventError, map[string]string{"message": "Missing data"})
		return
	}
	msg, err := s.app.SendMessage(from, payload.To, payload.Content)
	if err != nil {
		_ = s.hub.Send(conn, app.EventError, map[string]string{"message": err.Error()})
		return
	}
	// Sender-side echo; the recipient's room already got new_message.
	_ = s.hub.Send(conn, app.EventMessageSent, map[string]any{
		"success": true,
		"message": msg,
	})
}
