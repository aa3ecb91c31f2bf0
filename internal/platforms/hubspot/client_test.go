package hubspot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

func TestListFollowsPaging(t *testing.T) {
	var afters []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crm/v3/objects/tickets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		props := r.URL.Query().Get("properties")
		for _, want := range []string{"subject", "content", "hs_pipeline_stage", "hs_ticket_priority"} {
			if !strings.Contains(props, want) {
				t.Errorf("properties %q missing %s", props, want)
			}
		}

		after := r.URL.Query().Get("after")
		afters = append(afters, after)

		w.Header().Set("Content-Type", "application/json")
		if after == "" {
			_, _ = w.Write([]byte(`{
				"results": [
					{"id": "101", "properties": {"subject": "Bug 1", "content": "first", "hs_pipeline_stage": "open", "hs_ticket_priority": "HIGH"}},
					{"id": "102", "properties": {"subject": "Bug 2", "content": "second", "hs_pipeline_stage": "closed", "hs_ticket_priority": "LOW"}}
				],
				"paging": {"next": {"after": "cursor-1"}}
			}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"results": [
				{"id": "103", "properties": {"subject": "Bug 3", "content": "third", "hs_pipeline_stage": "open", "hs_ticket_priority": "MEDIUM"}}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-token", WithBaseURL(server.URL))

	recs, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List() = %v", err)
	}

	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	if len(afters) != 2 || afters[1] != "cursor-1" {
		t.Errorf("paging cursors = %v, want second request with cursor-1", afters)
	}

	first := recs[0]
	if first.Title != "Bug 1" || first.Description != "first" || first.Status != "open" || first.Priority != "HIGH" {
		t.Errorf("record mapping wrong: %+v", first)
	}
	if first.RemoteID != "101" {
		t.Errorf("RemoteID = %q, want 101", first.RemoteID)
	}
}

func TestCreateSendsProperties(t *testing.T) {
	var gotBody ticketRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "201", "properties": {}}`))
	}))
	defer server.Close()

	client := NewClient("test-token", WithBaseURL(server.URL))

	fields := records.FieldSet{
		records.FieldTitle:       "New ticket",
		records.FieldDescription: "details",
		records.FieldStatus:      "open",
		records.FieldPriority:    "HIGH",
	}

	id, err := client.Create(context.Background(), fields)
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}
	if id != "201" {
		t.Errorf("id = %q, want 201", id)
	}

	want := map[string]string{
		"subject":            "New ticket",
		"content":            "details",
		"hs_pipeline_stage":  "open",
		"hs_ticket_priority": "HIGH",
	}
	for prop, value := range want {
		if gotBody.Properties[prop] != value {
			t.Errorf("property %s = %q, want %q", prop, gotBody.Properties[prop], value)
		}
	}
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	var gotPath string
	var gotBody ticketRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"id": "301", "properties": {}}`))
	}))
	defer server.Close()

	client := NewClient("test-token", WithBaseURL(server.URL))

	fields := records.FieldSet{
		records.FieldStatus:   "closed",
		records.FieldPriority: "LOW",
	}

	if err := client.Update(context.Background(), "301", fields); err != nil {
		t.Fatalf("Update() = %v", err)
	}

	if gotPath != "/crm/v3/objects/tickets/301" {
		t.Errorf("path = %s", gotPath)
	}
	if len(gotBody.Properties) != 2 {
		t.Errorf("patched %d properties, want 2: %v", len(gotBody.Properties), gotBody.Properties)
	}
	if gotBody.Properties["hs_pipeline_stage"] != "closed" || gotBody.Properties["hs_ticket_priority"] != "LOW" {
		t.Errorf("properties = %v", gotBody.Properties)
	}
}

func TestListServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status": "error"}`))
	}))
	defer server.Close()

	client := NewClient("test-token", WithBaseURL(server.URL))

	_, err := client.List(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !errors.IsPlatformUnavailable(err) {
		t.Errorf("expected platform unavailable, got %v", err)
	}
}

func TestRecordFromTicket(t *testing.T) {
	tests := []struct {
		name   string
		ticket ticket
		want   records.Record
	}{
		{
			name: "all properties",
			ticket: ticket{
				ID: "1",
				Properties: map[string]string{
					"subject":            "Bug",
					"content":            "desc",
					"hs_pipeline_stage":  "open",
					"hs_ticket_priority": "HIGH",
				},
			},
			want: records.Record{Title: "Bug", Description: "desc", Status: "open", Priority: "HIGH", RemoteID: "1"},
		},
		{
			name:   "missing properties become empty",
			ticket: ticket{ID: "2", Properties: map[string]string{"subject": "Bare"}},
			want:   records.Record{Title: "Bare", RemoteID: "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recordFromTicket(tt.ticket)
			if got != tt.want {
				t.Errorf("recordFromTicket() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	if got := NewClient("t").Name(); got != records.Hubspot {
		t.Errorf("Name() = %s", got)
	}
}
