package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithRequestLogging_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := WithRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), log)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("status passthrough: %d", rr.Code)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line not JSON: %v (%q)", err, buf.String())
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Fatalf("logged status: %v", entry["status"])
	}
	if entry["path"] != "/healthz" {
		t.Fatalf("logged path: %v", entry["path"])
	}
}

func TestLoggingResponseWriter_PreservesOptionalInterfaces(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	// The real check that matters: a wrapped writer must still be
	// hijackable or WebSocket upgrades break.
	h := WithRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, ok := w.(http.Hijacker); !ok {
			t.Errorf("wrapped writer lost http.Hijacker")
		}
		if _, ok := w.(http.Flusher); !ok {
			t.Errorf("wrapped writer lost http.Flusher")
		}
		if _, ok := w.(io.ReaderFrom); !ok {
			t.Errorf("wrapped writer lost io.ReaderFrom")
		}
		w.WriteHeader(http.StatusOK)
	}), log)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
}

func TestWithCORS_WildcardWithoutCredentials(t *testing.T) {
	cfg := Config{CORSAllowedOrigins: []string{"*"}}
	h := WithCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), cfg)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin: %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Fatalf("allow-credentials should be unset, got %q", got)
	}
}

func TestWithCORS_CredentialsEchoOrigin(t *testing.T) {
	cfg := Config{
		CORSAllowedOrigins:   []string{"https://app.example.com"},
		CORSAllowCredentials: true,
	}
	h := WithCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), cfg)

	req := httptest.NewRequest(http.MethodOptions, "/getAccessToken", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	// Preflight terminates at the middleware.
	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight status: %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("allow-origin: %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("allow-credentials: %q", got)
	}
	if got := rr.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("vary: %q", got)
	}
}

func TestWithCORS_NoOriginPassthrough(t *testing.T) {
	cfg := Config{CORSAllowedOrigins: []string{"*"}}
	called := false
	h := WithCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), cfg)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !called {
		t.Fatal("next handler not reached")
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected CORS header on originless request: %q", got)
	}
}

func TestWithCORS_DisallowedOriginGetsNoHeaders(t *testing.T) {
	cfg := Config{CORSAllowedOrigins: []string{"https://app.example.com"}}
	h := WithCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), cfg)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin for disallowed origin: %q", got)
	}

	// Preflight from a disallowed origin ends with an empty 204.
	pre := httptest.NewRequest(http.MethodOptions, "/login", nil)
	pre.Header.Set("Origin", "https://evil.example.net")
	prr := httptest.NewRecorder()
	h.ServeHTTP(prr, pre)
	if prr.Code != http.StatusNoContent {
		t.Fatalf("preflight status: %d", prr.Code)
	}
	if got := prr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin on denied preflight: %q", got)
	}
}

func TestLoggingResponseWriter_CountsBytes(t *testing.T) {
	lrw := &loggingResponseWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}

	if _, err := lrw.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := lrw.ReadFrom(bytes.NewReader([]byte(" world"))); err != nil {
		t.Fatalf("read from: %v", err)
	}
	if lrw.bytes != int64(len("hello world")) {
		t.Fatalf("byte count: %d", lrw.bytes)
	}
}
