package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/SophieMSL/hubspot-monday-sync/internal/server/events"
	"github.com/SophieMSL/hubspot-monday-sync/internal/server/response"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

// HandleHubspotWebhook handles POST /webhooks/hubspot. The payload is not
// inspected: any ticket change notification schedules the same debounced
// full pass, so bursts collapse into one.
func (h *Handlers) HandleHubspotWebhook(w http.ResponseWriter, _ *http.Request) {
	if err := h.bridge.TriggerWebhook(records.Hubspot); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	h.broker.Publish(events.WebhookReceived, map[string]any{
		"platform": records.Hubspot.String(),
	})

	response.Accepted(w, map[string]any{
		"status":   "accepted",
		"platform": records.Hubspot.String(),
	})
}

// HandleMondayWebhook handles POST /webhooks/monday. Monday.com verifies a
// webhook URL by POSTing {"challenge": ...} and requires the identical JSON
// echoed back, outside the standard response envelope, before it delivers
// real notifications.
func (h *Handlers) HandleMondayWebhook(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Challenge string `json:"challenge"`
	}
	// Real notifications carry arbitrary shapes; only the challenge matters
	_ = json.NewDecoder(r.Body).Decode(&body)

	if body.Challenge != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"challenge": body.Challenge})
		return
	}

	if err := h.bridge.TriggerWebhook(records.Monday); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	h.broker.Publish(events.WebhookReceived, map[string]any{
		"platform": records.Monday.String(),
	})

	response.Accepted(w, map[string]any{
		"status":   "accepted",
		"platform": records.Monday.String(),
	})
}
