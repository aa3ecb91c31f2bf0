// Package handlers provides HTTP request handlers for the sync admin API.
package handlers

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	bridge "github.com/SophieMSL/hubspot-monday-sync"
	"github.com/SophieMSL/hubspot-monday-sync/internal/server/events"
	ws "github.com/SophieMSL/hubspot-monday-sync/internal/server/websocket"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	bridge    bridge.Bridge
	broker    *events.Broker
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
	startTime time.Time
	version   string
}

// New creates a new Handlers instance.
func New(
	b bridge.Bridge,
	broker *events.Broker,
	wsHub *ws.Hub,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
	version string,
) *Handlers {
	return &Handlers{
		bridge:    b,
		broker:    broker,
		wsHub:     wsHub,
		upgrader:  upgrader,
		logger:    logger,
		startTime: time.Now(),
		version:   version,
	}
}
