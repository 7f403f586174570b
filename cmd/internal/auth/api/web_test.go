package authapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRefreshCookieRoundTrip(t *testing.T) {
	h, _ := newTestHandler(t)

	exp := time.Now().Add(24 * time.Hour).UTC()
	rec := httptest.NewRecorder()
	h.setRefreshCookie(rec, "token-value", exp)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != h.cfg.RefreshCookieName || c.Value != "token-value" {
		t.Fatalf("cookie: %+v", c)
	}
	if !c.HttpOnly {
		t.Fatalf("refresh cookie must be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(c)
	got, ok := h.refreshTokenFromCookie(req)
	if !ok || got != "token-value" {
		t.Fatalf("refreshTokenFromCookie: %q %v", got, ok)
	}
}

func TestClearRefreshCookieExpiresIt(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.clearRefreshCookie(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Value != "" || c.MaxAge != -1 {
		t.Fatalf("cookie not cleared: %+v", c)
	}
}

func TestRefreshTokenFromCookie_Absent(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	if _, ok := h.refreshTokenFromCookie(req); ok {
		t.Fatalf("expected no cookie")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := LoadConfigFromEnv()
	if cfg.RefreshCookieName != "refreshToken" {
		t.Fatalf("cookie name: %q", cfg.RefreshCookieName)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Fatalf("max body bytes: %d", cfg.MaxBodyBytes)
	}

	t.Setenv("RAGGATE_AUTH_COOKIE_NAME", "rt")
	t.Setenv("RAGGATE_AUTH_COOKIE_SECURE", "true")
	cfg = LoadConfigFromEnv()
	if cfg.RefreshCookieName != "rt" || !cfg.CookieSecure {
		t.Fatalf("env overrides ignored: %+v", cfg)
	}
}
