package ws

import (
	"context"
	"log/slog"
	"net/http"

	"chat-relay/internal/auth"
	"chat-relay/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, implement proper origin checking
		return true
	},
}

// ServeWS returns the realtime channel handler. Each connection runs its
// whole lifecycle on the handler goroutine: authenticate from the init_data
// query parameter, register, announce, idle until the peer goes away, then
// tear down and announce the departure.
func ServeWS(hub *Hub, extractor *auth.Extractor, st *store.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("WebSocket upgrade failed", "error", err)
			return
		}

		userID, err := extractor.UserID(c.Query("init_data"))
		if err != nil {
			slog.Info("Rejected websocket connection", "error", err)
			client := NewClient(0, conn)
			client.closeWithReason(websocket.ClosePolicyViolation, "invalid init data")
			return
		}

		conn.SetReadLimit(maxFrameSize)
		serve(hub, st, NewClient(userID, conn))
	}
}

func serve(hub *Hub, st *store.Client, client *Client) {
	registry := hub.Registry()
	userID := client.UserID()

	registry.Register(userID, client)
	slog.Info("User connected", "userID", userID, "clientID", client.ID(), "online", registry.Count())

	// The store calls outlive the HTTP request context on purpose: each one
	// carries its own bound inside the client.
	if profile, err := st.UserProfile(context.Background(), userID); err == nil {
		hub.Broadcast(UserJoined(userID, profile.Nickname), userID)
	}
	hub.Broadcast(OnlineCount(registry.Count()), 0)

	// Push-only channel: inbound frames are drained and ignored. The read
	// returning an error is the only signal that the peer is gone.
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			break
		}
	}

	// Announce the departure only if our entry was still there. It may have
	// been swept already by a broadcast that failed on this connection.
	if registry.Unregister(userID) {
		slog.Info("User disconnected", "userID", userID, "clientID", client.ID())

		if profile, err := st.UserProfile(context.Background(), userID); err == nil {
			hub.Broadcast(UserLeft(userID, profile.Nickname), userID)
		}
		hub.Broadcast(OnlineCount(registry.Count()), 0)
	}

	client.Close()
}
