package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_LogsRequests(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}

	entry := logs.All()[0]
	if entry.Message != "HTTP request" {
		t.Errorf("expected message 'HTTP request', got '%s'", entry.Message)
	}
	if entry.ContextMap()["path"] != "/chat" {
		t.Errorf("expected path /chat, got %v", entry.ContextMap()["path"])
	}
}

func TestRequestLogger_NilLogger_PassesThrough(t *testing.T) {
	called := false
	handler := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if !called {
		t.Error("expected handler to be called")
	}
}

func TestRequestLogger_ServerErrorsLoggedAtWarn(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/contact", nil))

	entry := logs.All()[0]
	if entry.Level != zapcore.WarnLevel {
		t.Errorf("expected WARN, got %s", entry.Level)
	}
	if entry.ContextMap()["status"] != int64(http.StatusInternalServerError) {
		t.Errorf("expected status 500, got %v", entry.ContextMap()["status"])
	}
}

func TestResponseWriter_PreventsDuplicateWriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := wrapResponseWriter(rec)

	rw.WriteHeader(http.StatusMultiStatus)
	rw.WriteHeader(http.StatusInternalServerError)

	if rw.statusCode != http.StatusMultiStatus {
		t.Errorf("expected status %d, got %d", http.StatusMultiStatus, rw.statusCode)
	}
	if rec.Code != http.StatusMultiStatus {
		t.Errorf("expected recorded status %d, got %d", http.StatusMultiStatus, rec.Code)
	}
}

func TestResponseWriter_WriteTriggersWriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := wrapResponseWriter(rec)

	if _, err := rw.Write([]byte("ok")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rw.headerWritten || rw.statusCode != http.StatusOK {
		t.Errorf("expected implicit 200, got %d (written=%v)", rw.statusCode, rw.headerWritten)
	}
}

func TestWrapResponseWriter_ReusesWrapper(t *testing.T) {
	rw := wrapResponseWriter(httptest.NewRecorder())
	if wrapResponseWriter(rw) != rw {
		t.Error("expected wrapper to be reused")
	}
}
