package server

import (
	"net/http"

	"github.com/SophieMSL/hubspot-monday-sync/internal/server/handlers"
	"github.com/SophieMSL/hubspot-monday-sync/internal/server/middleware"
	"github.com/SophieMSL/hubspot-monday-sync/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	// Create handlers instance
	h := handlers.New(
		s.bridge,
		s.broker,
		s.wsHub,
		s.upgrader,
		s.logger,
		s.config.Version,
	)

	// Register routes
	s.registerRoutes(mux, h)

	// Apply middleware chain
	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints (no auth required)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/health", h.HandleHealth)

	// Status and activity
	mux.HandleFunc(prefix+"/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.HandleStatus(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	})

	mux.HandleFunc(prefix+"/logs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.HandleLogs(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	})

	// Sync controls
	mux.HandleFunc(prefix+"/sync", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.HandleSync(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	})

	mux.HandleFunc(prefix+"/policy", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.HandleGetPolicy(w, r)
		case http.MethodPut:
			h.HandleSetPolicy(w, r)
		default:
			response.MethodNotAllowed(w, r.Method)
		}
	})

	mux.HandleFunc(prefix+"/enabled", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			h.HandleSetEnabled(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	})

	// Webhook receivers. Public paths: the platforms deliver notifications
	// with their own signing schemes, not our admin token.
	mux.HandleFunc("/webhooks/hubspot", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.HandleHubspotWebhook(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	})

	mux.HandleFunc("/webhooks/monday", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.HandleMondayWebhook(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	})

	// Real-time event stream
	mux.HandleFunc(prefix+"/events/ws", h.HandleWebSocket)
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	// Rate limiting (if enabled)
	if cfg.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, s.logger)
		handler = middleware.RateLimit(rateLimiter)(handler)
	}

	// Authentication (if a token is configured)
	if cfg.AuthToken != "" {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		authConfig.Token = cfg.AuthToken
		handler = middleware.Auth(authConfig, s.logger)(handler)
	}

	// CORS (if enabled)
	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	// Logging and recovery (always enabled)
	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}
