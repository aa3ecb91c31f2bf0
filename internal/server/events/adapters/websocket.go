// Package adapters provides event subscriber implementations for different transports.
package adapters

import (
	"github.com/SophieMSL/hubspot-monday-sync/internal/server/events"
	ws "github.com/SophieMSL/hubspot-monday-sync/internal/server/websocket"
)

// WebSocketSubscriber adapts the WebSocket hub to the Subscriber interface.
type WebSocketSubscriber struct {
	hub *ws.Hub
}

// Compile-time interface check to ensure proper implementation.
var _ events.Subscriber = (*WebSocketSubscriber)(nil)

// NewWebSocketSubscriber creates a subscriber that broadcasts events to all
// connected WebSocket clients.
func NewWebSocketSubscriber(hub *ws.Hub) *WebSocketSubscriber {
	return &WebSocketSubscriber{hub: hub}
}

// Send broadcasts an event to all WebSocket clients.
func (s *WebSocketSubscriber) Send(event events.Event) error {
	s.hub.Broadcast(ws.Message{
		Type:      string(event.Type),
		Timestamp: event.Timestamp,
		Data:      event.Data,
	})
	return nil
}

// Close is a no-op: client connections are owned by the hub, which closes
// them on shutdown.
func (s *WebSocketSubscriber) Close() error {
	return nil
}
