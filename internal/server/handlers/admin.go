package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	bridge "github.com/SophieMSL/hubspot-monday-sync"
	"github.com/SophieMSL/hubspot-monday-sync/internal/server/events"
	"github.com/SophieMSL/hubspot-monday-sync/internal/server/response"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/journal"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/policy"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/reconciler"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

// HandleSync handles POST /api/v1/sync. Without a direction query parameter
// it runs a full pass, both directions in canonical order; with one it runs
// that single direction.
func (h *Handlers) HandleSync(w http.ResponseWriter, r *http.Request) {
	if d := r.URL.Query().Get("direction"); d != "" {
		h.handleDirectionPass(w, r, records.Direction(d))
		return
	}

	if !h.bridge.Enabled() {
		response.ErrorFromType(w, errors.ErrSyncDisabled)
		return
	}

	h.broker.Publish(events.SyncStarted, map[string]any{"trigger": "manual"})

	results, err := h.bridge.Sync(r.Context())
	switch {
	case stderrors.Is(err, errors.ErrPassInProgress):
		// The request was folded into the single pending follow-up pass
		response.Accepted(w, map[string]any{"status": "queued"})
	case err != nil && len(results) > 0:
		// One direction aborted on a fetch failure, the other still ran
		response.OK(w, map[string]any{
			"status":  "partial",
			"results": resultsJSON(results),
			"error":   err.Error(),
		})
	case err != nil:
		response.ErrorFromType(w, err)
	default:
		response.OK(w, map[string]any{
			"status":  "completed",
			"results": resultsJSON(results),
		})
	}
}

// handleDirectionPass runs a single one-direction pass. Unlike the full pass
// a busy engine maps to 409: single-direction requests are never queued.
func (h *Handlers) handleDirectionPass(w http.ResponseWriter, r *http.Request, direction records.Direction) {
	// Validate before publishing so garbage input emits no events
	if !direction.IsValid() {
		response.BadRequest(w, "Invalid direction: "+direction.String(),
			"Use hubspot_to_monday or monday_to_hubspot")
		return
	}
	if !h.bridge.Enabled() {
		response.ErrorFromType(w, errors.ErrSyncDisabled)
		return
	}

	h.broker.Publish(events.SyncStarted, map[string]any{
		"trigger":   "manual",
		"direction": direction.String(),
	})

	result, err := h.bridge.SyncDirection(r.Context(), direction)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, map[string]any{
		"status":  "completed",
		"results": []map[string]any{resultJSON(result)},
	})
}

// HandleGetPolicy handles GET /api/v1/policy.
func (h *Handlers) HandleGetPolicy(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.bridge.Policy())
}

// HandleSetPolicy handles PUT /api/v1/policy. The body is a JSON object of
// field-to-owner entries; a subset updates just those fields. Entries are
// validated up front so a bad request changes nothing.
func (h *Handlers) HandleSetPolicy(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid JSON body", err.Error())
		return
	}
	if len(body) == 0 {
		response.BadRequest(w, "Empty policy update",
			`Provide field-to-owner entries, e.g. {"status": "monday"}`)
		return
	}

	for field, owner := range body {
		if !records.Field(field).IsValid() {
			response.BadRequest(w, "Unknown field: "+field,
				"Fields are title, description, status, priority")
			return
		}
		if _, err := policy.ParseOwner(owner); err != nil {
			response.ErrorFromType(w, err)
			return
		}
	}

	for field, owner := range body {
		if err := h.bridge.SetPolicyField(field, owner); err != nil {
			response.ErrorFromType(w, err)
			return
		}
	}

	response.OK(w, h.bridge.Policy())
}

// HandleSetEnabled handles PUT /api/v1/enabled.
func (h *Handlers) HandleSetEnabled(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid JSON body", err.Error())
		return
	}
	if body.Enabled == nil {
		response.BadRequest(w, "Missing enabled flag",
			`Body must be {"enabled": true} or {"enabled": false}`)
		return
	}

	h.bridge.SetEnabled(*body.Enabled)

	response.OK(w, map[string]any{"enabled": h.bridge.Enabled()})
}

// HandleLogs handles GET /api/v1/logs. Entries come back most recent first;
// optional severity and limit query parameters narrow the slice.
func (h *Handlers) HandleLogs(w http.ResponseWriter, r *http.Request) {
	entries := h.bridge.Journal().Entries()

	if sev := r.URL.Query().Get("severity"); sev != "" {
		severity := journal.Severity(sev)
		if severity != journal.SeverityInfo && severity != journal.SeverityWarn && severity != journal.SeverityError {
			response.BadRequest(w, "Invalid severity: "+sev, "Severity must be info, warn, or error")
			return
		}
		filtered := make([]journal.Entry, 0, len(entries))
		for _, e := range entries {
			if e.Severity == severity {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 1 {
			response.BadRequest(w, "Invalid limit: "+limitParam, "Limit must be a positive integer")
			return
		}
		if limit < len(entries) {
			entries = entries[:limit]
		}
	}

	response.OK(w, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

// resultJSON flattens a pass result for the wire.
func resultJSON(r *reconciler.Result) map[string]any {
	return map[string]any{
		"direction":   r.Direction.String(),
		"created":     r.Created,
		"updated":     r.Updated,
		"skipped":     r.Skipped,
		"failed":      r.Failed,
		"duration_ms": r.Metadata.Duration.Milliseconds(),
		"dry_run":     r.Metadata.DryRun,
	}
}

func resultsJSON(results bridge.Results) []map[string]any {
	out := make([]map[string]any, 0, len(results))
	for _, r := range results {
		out = append(out, resultJSON(r))
	}
	return out
}
