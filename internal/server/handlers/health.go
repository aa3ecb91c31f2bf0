package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/SophieMSL/hubspot-monday-sync/internal/server/response"
)

// HandleHealth handles GET /health. Liveness only: it answers as long as the
// process is up, regardless of sync or platform state.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "hmsync",
		"version": h.version,
	})
}

// HandleStatus handles GET /api/v1/status.
func (h *Handlers) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	// null until the first successful full pass
	var lastPass any
	if t, ok := h.bridge.LastPass(); ok {
		lastPass = t
	}

	response.OK(w, map[string]any{
		"enabled":   h.bridge.Enabled(),
		"last_pass": lastPass,
		"policy":    h.bridge.Policy(),
		"runtime": map[string]any{
			"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
			"goroutines":     runtime.NumGoroutine(),
			"memory_mb":      memStats.Alloc / 1024 / 1024,
		},
		"events": map[string]any{
			"published_total": h.broker.EventsPublished(),
			"dropped_total":   h.broker.EventsDropped(),
			"queue_depth":     h.broker.QueueDepth(),
		},
		"realtime": map[string]any{
			"websocket_clients": h.wsHub.ClientCount(),
		},
	})
}
