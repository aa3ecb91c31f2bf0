package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SophieMSL/hubspot-monday-sync/internal/server/events"
	ws "github.com/SophieMSL/hubspot-monday-sync/internal/server/websocket"
)

// HandleWebSocket handles WebSocket connections at /api/v1/events/ws. The
// stream is broadcast-only: clients receive every event the broker publishes
// and anything they send is discarded.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	clientID := fmt.Sprintf("%s-%d", r.RemoteAddr, time.Now().Unix())
	client := ws.NewClient(clientID, h.wsHub, conn)

	h.wsHub.Register(client)

	h.wsHub.Broadcast(ws.Message{
		Type:      string(events.ClientConnected),
		Timestamp: time.Now(),
		Data: map[string]any{
			"client_id": clientID,
		},
	})

	// Start client pumps
	go client.WritePump()
	go client.ReadPump()
}
