// Package server provides the HTTP admin and webhook surface for the sync
// bridge: runtime controls, the activity journal, webhook receivers for both
// platforms, and a WebSocket stream of sync events.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	bridge "github.com/SophieMSL/hubspot-monday-sync"
	"github.com/SophieMSL/hubspot-monday-sync/internal/server/events"
	"github.com/SophieMSL/hubspot-monday-sync/internal/server/events/adapters"
	ws "github.com/SophieMSL/hubspot-monday-sync/internal/server/websocket"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/reconciler"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	bridge    bridge.Bridge
	broker    *events.Broker
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
	config    Config
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// New creates a new server instance with the given configuration.
func New(b bridge.Bridge, cfg Config, logger *zerolog.Logger) (*Server, error) {
	if b == nil {
		return nil, errors.NewConfigError("server", "bridge is required", nil)
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = DefaultConfig().PathPrefix
	}

	// Create the event broker and the WebSocket transport
	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)

	// Subscribe the transport to the broker
	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))

	// Create context for managing background services
	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		bridge: b,
		broker: broker,
		wsHub:  wsHub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true // Allow all origins for WebSocket
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	// Forward bridge hooks into the event broker
	server.connectHooks()

	return server, nil
}

// connectHooks registers bridge event hooks to publish to the broker.
func (s *Server) connectHooks() {
	s.bridge.OnRecordCreated(func(direction records.Direction, key, remoteID string) {
		s.broker.Publish(events.RecordCreated, map[string]any{
			"direction": direction.String(),
			"key":       key,
			"remote_id": remoteID,
		})
	})

	s.bridge.OnRecordUpdated(func(direction records.Direction, key string, fields records.FieldSet) {
		s.broker.Publish(events.RecordUpdated, map[string]any{
			"direction": direction.String(),
			"key":       key,
			"fields":    fields.Names(),
		})
	})

	s.bridge.OnPassComplete(func(result *reconciler.Result) {
		s.broker.Publish(events.SyncCompleted, map[string]any{
			"direction":   result.Direction.String(),
			"created":     result.Created,
			"updated":     result.Updated,
			"skipped":     result.Skipped,
			"failed":      result.Failed,
			"duration_ms": result.Metadata.Duration.Milliseconds(),
		})
	})

	s.bridge.OnError(func(err error) {
		s.broker.Publish(events.SyncError, map[string]any{
			"error": err.Error(),
		})
	})

	s.logger.Debug().Msg("Bridge hooks connected to event broker")
}

// Start starts background services (event broker and WebSocket hub).
func (s *Server) Start() {
	go s.broker.Run(s.ctx)
	go s.wsHub.Run(s.ctx)

	s.logger.Debug().Msg("Server background services started")
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown gracefully shuts down background services.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")

	// Stop the broker and hub loops
	s.cancel()

	// Give the loops a moment to close their subscribers and clients
	select {
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown cut short")
		return ctx.Err()
	case <-time.After(100 * time.Millisecond):
	}

	return nil
}

// Broker returns the event broker for publishing events.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
