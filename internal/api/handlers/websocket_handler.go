package handlers

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"

	ws "github.com/err0rre/Task-management/internal/websocket"
)

// Actions a client may send.
const (
	actionPing = "ping"
	actionPong = "pong"
)

// WebSocketHandler upgrades authenticated requests to notification streams.
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler. Origins are checked
// against allowedOrigins unless it is empty or contains "*".
func NewWebSocketHandler(hub *ws.Hub, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// Serve handles the WebSocket connection request.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	userID, ok := subject(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, userID)
	select {
	case h.hub.Register <- client:
	case <-h.hub.Done():
		_ = conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump(handleIncomingWSMessage)
}

// handleIncomingWSMessage processes messages received from a websocket client.
func handleIncomingWSMessage(client *ws.Client, msg ws.Message) {
	switch msg.Action {
	case actionPing:
		client.Reply(ws.Message{Action: actionPong})
	default:
		client.Reply(ws.NewErrorMessage("Unknown action: " + msg.Action))
	}
}
