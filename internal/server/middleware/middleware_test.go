package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestChain tests middleware composition.
func TestChain(t *testing.T) {
	tests := []struct {
		name              string
		numMiddleware     int
		expectedCallOrder []string
	}{
		{
			name:              "no middleware",
			numMiddleware:     0,
			expectedCallOrder: []string{"handler"},
		},
		{
			name:              "single middleware",
			numMiddleware:     1,
			expectedCallOrder: []string{"m1", "handler"},
		},
		{
			name:              "two middleware",
			numMiddleware:     2,
			expectedCallOrder: []string{"m1", "m2", "handler"},
		},
		{
			name:              "three middleware",
			numMiddleware:     3,
			expectedCallOrder: []string{"m1", "m2", "m3", "handler"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var callOrder []string

			// Create middleware that track call order
			middlewares := make([]func(http.Handler) http.Handler, tt.numMiddleware)
			for i := 0; i < tt.numMiddleware; i++ {
				name := "m" + string(rune('1'+i))
				middlewares[i] = func(n string) func(http.Handler) http.Handler {
					return func(next http.Handler) http.Handler {
						return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
							callOrder = append(callOrder, n)
							next.ServeHTTP(w, r)
						})
					}
				}(name)
			}

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				callOrder = append(callOrder, "handler")
				w.WriteHeader(http.StatusOK)
			})

			chained := Chain(middlewares...)(handler)

			req := httptest.NewRequest("GET", "/test", nil)
			w := httptest.NewRecorder()
			chained.ServeHTTP(w, req)

			if len(callOrder) != len(tt.expectedCallOrder) {
				t.Fatalf("expected %d calls, got %d", len(tt.expectedCallOrder), len(callOrder))
			}

			for i, expected := range tt.expectedCallOrder {
				if callOrder[i] != expected {
					t.Errorf("call %d: expected %s, got %s", i, expected, callOrder[i])
				}
			}

			if w.Code != http.StatusOK {
				t.Errorf("expected status 200, got %d", w.Code)
			}
		})
	}
}

// TestChain_ExecutionOrder verifies first added is outermost middleware.
func TestChain_ExecutionOrder(t *testing.T) {
	var executionLog []string

	m1 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			executionLog = append(executionLog, "start-1")
			next.ServeHTTP(w, r)
			executionLog = append(executionLog, "end-1")
		})
	}

	m2 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			executionLog = append(executionLog, "start-2")
			next.ServeHTTP(w, r)
			executionLog = append(executionLog, "end-2")
		})
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		executionLog = append(executionLog, "handler")
		w.WriteHeader(http.StatusOK)
	})

	chained := Chain(m1, m2)(handler)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	chained.ServeHTTP(w, req)

	expected := []string{"start-1", "start-2", "handler", "end-2", "end-1"}
	if len(executionLog) != len(expected) {
		t.Fatalf("expected %d log entries, got %d", len(expected), len(executionLog))
	}

	for i, exp := range expected {
		if executionLog[i] != exp {
			t.Errorf("log[%d]: expected %s, got %s", i, exp, executionLog[i])
		}
	}
}

// TestLogger tests request logging middleware.
func TestLogger(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		path          string
		handlerStatus int
	}{
		{
			name:          "GET request",
			method:        "GET",
			path:          "/api/v1/status",
			handlerStatus: http.StatusOK,
		},
		{
			name:          "POST request",
			method:        "POST",
			path:          "/api/v1/sync",
			handlerStatus: http.StatusAccepted,
		},
		{
			name:          "PUT request",
			method:        "PUT",
			path:          "/api/v1/policy",
			handlerStatus: http.StatusOK,
		},
		{
			name:          "error status",
			method:        "GET",
			path:          "/api/v1/unknown",
			handlerStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).With().Timestamp().Logger()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
			})

			middleware := Logger(&logger)
			wrapped := middleware(handler)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = "192.168.1.1:12345"
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, req)

			if w.Code != tt.handlerStatus {
				t.Errorf("expected status %d, got %d", tt.handlerStatus, w.Code)
			}

			logOutput := buf.String()
			if !strings.Contains(logOutput, tt.method) {
				t.Errorf("log missing method %s: %s", tt.method, logOutput)
			}
			if !strings.Contains(logOutput, tt.path) {
				t.Errorf("log missing path %s: %s", tt.path, logOutput)
			}
			if !strings.Contains(logOutput, "HTTP request") {
				t.Errorf("log missing message: %s", logOutput)
			}

			var logEntry map[string]interface{}
			if err := json.Unmarshal([]byte(logOutput), &logEntry); err != nil {
				t.Errorf("log is not valid JSON: %v", err)
			}

			if logEntry["method"] != tt.method {
				t.Errorf("log method: expected %s, got %v", tt.method, logEntry["method"])
			}
			if logEntry["path"] != tt.path {
				t.Errorf("log path: expected %s, got %v", tt.path, logEntry["path"])
			}
			if statusFloat, ok := logEntry["status"].(float64); !ok || int(statusFloat) != tt.handlerStatus {
				t.Errorf("log status: expected %d, got %v", tt.handlerStatus, logEntry["status"])
			}
			if _, ok := logEntry["duration_ms"]; !ok {
				t.Error("log missing duration_ms field")
			}
		})
	}
}

// TestLogger_StatusCodeCapture verifies responseWriter captures status codes.
func TestLogger_StatusCodeCapture(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Timestamp().Logger()

	statusCodes := []int{
		http.StatusOK,
		http.StatusAccepted,
		http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusConflict,
		http.StatusInternalServerError,
	}

	for _, expectedStatus := range statusCodes {
		t.Run("status_"+http.StatusText(expectedStatus), func(t *testing.T) {
			buf.Reset()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(expectedStatus)
			})

			middleware := Logger(&logger)
			wrapped := middleware(handler)

			req := httptest.NewRequest("GET", "/test", nil)
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, req)

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("failed to parse log: %v", err)
			}

			statusFloat, ok := logEntry["status"].(float64)
			if !ok {
				t.Fatalf("status field not found or wrong type")
			}

			if int(statusFloat) != expectedStatus {
				t.Errorf("expected status %d, got %d", expectedStatus, int(statusFloat))
			}
		})
	}
}

// TestRecovery tests panic recovery middleware.
func TestRecovery(t *testing.T) {
	tests := []struct {
		name           string
		shouldPanic    bool
		panicValue     interface{}
		expectStatus   int
		expectLogPanic bool
	}{
		{
			name:           "no panic - normal execution",
			shouldPanic:    false,
			expectStatus:   http.StatusOK,
			expectLogPanic: false,
		},
		{
			name:           "panic with string",
			shouldPanic:    true,
			panicValue:     "something went wrong",
			expectStatus:   http.StatusInternalServerError,
			expectLogPanic: true,
		},
		{
			name:           "panic with error",
			shouldPanic:    true,
			panicValue:     http.ErrAbortHandler,
			expectStatus:   http.StatusInternalServerError,
			expectLogPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).With().Timestamp().Logger()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.shouldPanic {
					panic(tt.panicValue)
				}
				w.WriteHeader(http.StatusOK)
			})

			middleware := Recovery(&logger)
			wrapped := middleware(handler)

			req := httptest.NewRequest("GET", "/test", nil)
			w := httptest.NewRecorder()

			// Should not panic at this level
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Errorf("panic not recovered: %v", r)
					}
				}()
				wrapped.ServeHTTP(w, req)
			}()

			if w.Code != tt.expectStatus {
				t.Errorf("expected status %d, got %d", tt.expectStatus, w.Code)
			}

			logOutput := buf.String()
			if tt.expectLogPanic {
				if !strings.Contains(logOutput, "Panic recovered") {
					t.Error("expected panic log entry")
				}

				body := w.Body.String()
				if !strings.Contains(body, "INTERNAL_ERROR") {
					t.Error("response missing INTERNAL_ERROR code")
				}

				var errorResp map[string]interface{}
				if err := json.Unmarshal([]byte(body), &errorResp); err != nil {
					t.Errorf("response is not valid JSON: %v", err)
				}
			} else {
				if strings.Contains(logOutput, "Panic recovered") {
					t.Error("unexpected panic log entry")
				}
			}
		})
	}
}

// TestRecovery_OtherRequestsStillWork verifies other requests work after panic.
func TestRecovery_OtherRequestsStillWork(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Timestamp().Logger()

	requestCount := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		if requestCount == 2 {
			panic("intentional panic")
		}
		w.WriteHeader(http.StatusOK)
	})

	middleware := Recovery(&logger)
	wrapped := middleware(handler)

	req1 := httptest.NewRequest("GET", "/test1", nil)
	w1 := httptest.NewRecorder()
	wrapped.ServeHTTP(w1, req1)
	if w1.Code != http.StatusOK {
		t.Errorf("request 1: expected 200, got %d", w1.Code)
	}

	req2 := httptest.NewRequest("GET", "/test2", nil)
	w2 := httptest.NewRecorder()
	wrapped.ServeHTTP(w2, req2)
	if w2.Code != http.StatusInternalServerError {
		t.Errorf("request 2: expected 500, got %d", w2.Code)
	}

	req3 := httptest.NewRequest("GET", "/test3", nil)
	w3 := httptest.NewRecorder()
	wrapped.ServeHTTP(w3, req3)
	if w3.Code != http.StatusOK {
		t.Errorf("request 3: expected 200, got %d", w3.Code)
	}

	if requestCount != 3 {
		t.Errorf("expected 3 requests, got %d", requestCount)
	}
}

// TestLogger_Duration verifies duration logging.
func TestLogger_Duration(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Timestamp().Logger()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	middleware := Logger(&logger)
	wrapped := middleware(handler)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log: %v", err)
	}

	durationFloat, ok := logEntry["duration_ms"].(float64)
	if !ok {
		t.Fatal("duration_ms field not found or wrong type")
	}

	// Duration is logged in milliseconds as a float
	durationMs := time.Duration(durationFloat * float64(time.Millisecond))
	if durationMs < 50*time.Millisecond {
		t.Errorf("duration too short: %v (expected >= 50ms)", durationMs)
	}
}

// TestResponseWriter tests the responseWriter wrapper.
func TestResponseWriter(t *testing.T) {
	tests := []struct {
		name         string
		writeHeader  bool
		statusCode   int
		expectedCode int
	}{
		{
			name:         "explicit WriteHeader",
			writeHeader:  true,
			statusCode:   http.StatusAccepted,
			expectedCode: http.StatusAccepted,
		},
		{
			name:         "default status (no WriteHeader)",
			writeHeader:  false,
			expectedCode: http.StatusOK,
		},
		{
			name:         "error status",
			writeHeader:  true,
			statusCode:   http.StatusBadRequest,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			rw := &responseWriter{
				ResponseWriter: recorder,
				statusCode:     http.StatusOK,
			}

			if tt.writeHeader {
				rw.WriteHeader(tt.statusCode)
			}

			if rw.statusCode != tt.expectedCode {
				t.Errorf("expected statusCode=%d, got %d", tt.expectedCode, rw.statusCode)
			}

			if tt.writeHeader && recorder.Code != tt.statusCode {
				t.Errorf("expected recorder.Code=%d, got %d", tt.statusCode, recorder.Code)
			}
		})
	}
}
