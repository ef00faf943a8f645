package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRequestIDMiddleware(t *testing.T) {
	var captured string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("sets header and context", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		header := rec.Header().Get("X-Request-ID")
		if header == "" {
			t.Fatal("X-Request-ID header not set")
		}
		if captured != header {
			t.Errorf("context id %q != header id %q", captured, header)
		}
	})

	t.Run("ids are unique per request", func(t *testing.T) {
		rec1 := httptest.NewRecorder()
		handler.ServeHTTP(rec1, httptest.NewRequest(http.MethodGet, "/ping", nil))
		rec2 := httptest.NewRecorder()
		handler.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/ping", nil))

		if rec1.Header().Get("X-Request-ID") == rec2.Header().Get("X-Request-ID") {
			t.Error("two requests received the same id")
		}
	})
}

func TestGetRequestIDWithoutMiddleware(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() = %q, want empty without middleware", got)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		AddLogField(r.Context(), "tool", "list_requests")
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tools/list_requests", nil))

	logs := buf.String()
	if !strings.Contains(logs, "request started") {
		t.Error("missing start log")
	}
	if !strings.Contains(logs, "request completed") {
		t.Error("missing completion log")
	}
	if !strings.Contains(logs, `"status":418`) {
		t.Errorf("completion log missing captured status: %s", logs)
	}
	if !strings.Contains(logs, `"tool":"list_requests"`) {
		t.Errorf("completion log missing custom field: %s", logs)
	}
}

func TestAddErrorNilIsNoop(t *testing.T) {
	// Must not panic without middleware context.
	AddError(context.Background(), nil)
	AddError(context.Background(), io.EOF)
}

func TestTimeoutMiddleware(t *testing.T) {
	handler := TimeoutMiddleware(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			w.WriteHeader(http.StatusServiceUnavailable)
		case <-time.After(time.Second):
			w.WriteHeader(http.StatusOK)
		}
	}))

	rec := httptest.NewRecorder()
	start := time.Now()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want handler to observe cancellation", rec.Code)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("timeout did not fire")
	}
}

func TestServerRouting(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(0, logger)

	srv.Router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "pong" {
		t.Errorf("body = %q", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("middleware stack did not set X-Request-ID")
	}
}
