package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLoggerPassesThrough(t *testing.T) {
	called := false
	var seenID string

	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seenID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/routines", nil)
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("inner handler not called")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if len(seenID) != 8 {
		t.Errorf("request ID = %q, want 8 chars", seenID)
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	if id := GetRequestID(context.Background()); id != "" {
		t.Errorf("GetRequestID on empty context = %q, want empty", id)
	}
}

func TestRequestLoggerSkipsHealthProbes(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	if buf.Len() != 0 {
		t.Errorf("health probe logged: %q", buf.String())
	}

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/routines", nil))
	if !strings.Contains(buf.String(), "path=/routines") {
		t.Errorf("request not logged: %q", buf.String())
	}
}

func TestResponseWriterDefaultsTo200(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := &responseWriter{ResponseWriter: rec, status: http.StatusOK}

	ww.Write([]byte("ok"))

	if ww.status != http.StatusOK {
		t.Errorf("status = %d, want 200", ww.status)
	}
	if ww.bytes != 2 {
		t.Errorf("bytes = %d, want 2", ww.bytes)
	}
}
