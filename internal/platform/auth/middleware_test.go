package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runGated(t *testing.T, g *Gate, fallback TokenFunc, prep func(*http.Request)) (string, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/reports", nil)
	if prep != nil {
		prep(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var subject string
	handler := func(c echo.Context) error {
		subject = AdminFromContext(c.Request().Context())
		return c.String(http.StatusOK, "ok")
	}
	err := RequireAdmin(g, fallback)(handler)(c)
	return subject, err
}

func expectStatus(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %d, got nil error", code)
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != code {
		t.Errorf("expected %d, got %d", code, httpErr.Code)
	}
}

func TestRequireAdmin_MissingToken(t *testing.T) {
	_, err := runGated(t, newTestGate(t), nil, nil)
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestRequireAdmin_InvalidFormat(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "Token abc123"},
		{"missing token", "Bearer"},
		{"empty value", "Bearer "},
		{"basic auth", "Basic dXNlcjpwYXNz"},
	}
	g := newTestGate(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runGated(t, g, nil, func(r *http.Request) { r.Header.Set("Authorization", tt.header) })
			expectStatus(t, err, http.StatusUnauthorized)
		})
	}
}

func TestRequireAdmin_BearerToken(t *testing.T) {
	g := newTestGate(t)
	tok, err := g.Login("admin", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	sub, err := runGated(t, g, nil, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub != "admin" {
		t.Errorf("expected subject admin, got %q", sub)
	}
}

func TestRequireAdmin_Cookie(t *testing.T) {
	g := newTestGate(t)
	tok, _ := g.Login("admin", "admin123")
	_, err := runGated(t, g, nil, func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AdminCookie, Value: tok}) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireAdmin_SessionFallback(t *testing.T) {
	g := newTestGate(t)
	tok, _ := g.Login("admin", "admin123")

	if _, err := runGated(t, g, func() string { return tok }, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := runGated(t, g, func() string { return "stale" }, nil)
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestRequireAdmin_HeaderWinsOverFallback(t *testing.T) {
	g := newTestGate(t)
	tok, _ := g.Login("admin", "admin123")
	_, err := runGated(t, g, func() string { return tok }, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer forged")
	})
	expectStatus(t, err, http.StatusUnauthorized)
}
