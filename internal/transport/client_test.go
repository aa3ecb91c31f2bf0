package transport

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
)

func TestClientAppliesAuthAndHeaders(t *testing.T) {
	var gotAuth, gotAccept, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := New(&BearerAuth{}, "secret")

	resp, err := client.Post(context.Background(), server.URL, map[string]string{"a": "b"})
	if err != nil {
		t.Fatalf("Post() = %v", err)
	}
	_ = resp.Body.Close()

	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want Bearer secret", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
}

func TestClientSkipsAuthWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(&BearerAuth{}, "")

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	_ = resp.Body.Close()

	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestClientPostMarshalsBody(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"42"}`))
	}))
	defer server.Close()

	client := New(&NoAuth{}, "")

	resp, err := client.Post(context.Background(), server.URL, map[string]string{"subject": "Bug 1"})
	if err != nil {
		t.Fatalf("Post() = %v", err)
	}

	var decoded struct {
		ID string `json:"id"`
	}
	if err := DecodeResponse("hubspot", resp, &decoded); err != nil {
		t.Fatalf("DecodeResponse() = %v", err)
	}
	if decoded.ID != "42" {
		t.Errorf("decoded id = %q, want 42", decoded.ID)
	}
	if gotBody["subject"] != "Bug 1" {
		t.Errorf("request body = %v", gotBody)
	}
}

func TestDecodeResponseErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			check: func(t *testing.T, err error) {
				if !errors.IsRateLimited(err) {
					t.Errorf("expected rate limit error, got %v", err)
				}
			},
		},
		{
			name:   "server error",
			status: http.StatusServiceUnavailable,
			check: func(t *testing.T, err error) {
				if !errors.IsPlatformUnavailable(err) {
					t.Errorf("expected platform unavailable, got %v", err)
				}
			},
		},
		{
			name:   "client error",
			status: http.StatusBadRequest,
			check: func(t *testing.T, err error) {
				var apiErr *errors.APIError
				if !stderrors.As(err, &apiErr) {
					t.Fatalf("expected APIError, got %T", err)
				}
				if apiErr.StatusCode != http.StatusBadRequest {
					t.Errorf("StatusCode = %d", apiErr.StatusCode)
				}
				if apiErr.Platform != "monday" {
					t.Errorf("Platform = %q", apiErr.Platform)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			client := New(&NoAuth{}, "")
			resp, err := client.Get(context.Background(), server.URL)
			if err != nil {
				t.Fatalf("Get() = %v", err)
			}

			err = DecodeResponse("monday", resp, nil)
			if err == nil {
				t.Fatal("expected error for non-2xx status")
			}
			tt.check(t, err)
		})
	}
}
