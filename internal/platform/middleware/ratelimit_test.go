package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func callLimited(t *testing.T, mw echo.MiddlewareFunc, ip string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, err
}

func TestRateLimit_BurstThenRefuse(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.2, BurstSize: 2})

	for i := 0; i < 2; i++ {
		if _, err := callLimited(t, mw, "10.0.0.1"); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}

	rec, err := callLimited(t, mw, "10.0.0.1")
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
	if got := rec.Header().Get("Retry-After"); got != "5" {
		t.Errorf("expected Retry-After 5, got %q", got)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("expected X-RateLimit-Remaining 0, got %q", got)
	}
}

func TestRateLimit_PerClient(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.2, BurstSize: 1})

	if _, err := callLimited(t, mw, "10.0.0.1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := callLimited(t, mw, "10.0.0.1"); err == nil {
		t.Fatal("expected second request from the same client to be refused")
	}
	if _, err := callLimited(t, mw, "10.0.0.2"); err != nil {
		t.Fatalf("expected another client to pass, got %v", err)
	}
}

func TestRateLimit_ZeroBurstRefusesEverything(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 0})
	if _, err := callLimited(t, mw, "10.0.0.1"); err == nil {
		t.Fatal("expected refusal with zero burst")
	}
}

func TestLimiterStore_EvictsIdleClients(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newLimiterStore(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1, IdleTTL: time.Minute})
	store.now = func() time.Time { return now }

	store.get("10.0.0.1")
	store.get("10.0.0.2")
	if got := store.size(); got != 2 {
		t.Fatalf("expected 2 buckets, got %d", got)
	}

	now = now.Add(30 * time.Second)
	store.get("10.0.0.2")

	now = now.Add(45 * time.Second)
	store.get("10.0.0.3")
	if got := store.size(); got != 2 {
		t.Fatalf("expected idle 10.0.0.1 to be dropped, got %d buckets", got)
	}
	if _, ok := store.limiters["10.0.0.1"]; ok {
		t.Error("expected 10.0.0.1 to be evicted")
	}
	if _, ok := store.limiters["10.0.0.2"]; !ok {
		t.Error("expected recently used 10.0.0.2 to survive")
	}
}

func TestLimiterStore_DefaultIdleTTL(t *testing.T) {
	store := newLimiterStore(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})
	if store.cfg.IdleTTL != defaultIdleTTL {
		t.Errorf("expected default idle ttl %s, got %s", defaultIdleTTL, store.cfg.IdleTTL)
	}
}
