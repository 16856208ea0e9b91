package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type contextKey string

const AdminSubjectKey contextKey = "admin_subject"

// AdminCookie carries the admin token for browser requests to the console.
const AdminCookie = "mediway_admin"

// TokenFunc supplies a token when the request carries none, e.g. the one
// stored in the local session.
type TokenFunc func() string

// RequireAdmin rejects requests without a valid admin token. The token is
// taken from the Authorization header, then the admin cookie, then fallback.
func RequireAdmin(g *Gate, fallback TokenFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, err := requestToken(c)
			if err != nil {
				return err
			}
			if tok == "" && fallback != nil {
				tok = fallback()
			}
			if tok == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "admin login required")
			}

			claims, err := g.Verify(tok)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := context.WithValue(c.Request().Context(), AdminSubjectKey, claims.Subject)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func requestToken(c echo.Context) (string, error) {
	if h := c.Request().Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if ck, err := c.Cookie(AdminCookie); err == nil {
		return ck.Value, nil
	}
	return "", nil
}

func AdminFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(AdminSubjectKey).(string)
	return sub
}
