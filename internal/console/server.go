// Package console is the local web UI server: JSON pages over the backend,
// the admin report dashboard and the operational endpoints.
package console

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mediway/mediway/internal/app"
	"github.com/mediway/mediway/internal/domain/admin"
	"github.com/mediway/mediway/internal/domain/appointment"
	"github.com/mediway/mediway/internal/domain/doctor"
	"github.com/mediway/mediway/internal/domain/portal"
	"github.com/mediway/mediway/internal/domain/report"
	"github.com/mediway/mediway/internal/platform/auth"
	"github.com/mediway/mediway/internal/platform/middleware"
)

// Version is reported by /health.
const Version = "0.1.0"

const maxBody = "10M"

// exportPrefix is exempt from the request timeout; downloads stream for as
// long as the backend takes.
const exportPrefix = "/admin/reports/export"

func NewServer(a *app.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(a.Logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(a.Logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(maxBody))
	e.Use(a.Metrics.Middleware())
	e.Use(middleware.RequestTimeout(a.Config.HTTPTimeout+5*time.Second, exportPrefix))
	e.Use(syncSession(a))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": Version,
		})
	})
	e.GET("/metrics", echo.WrapHandler(a.Metrics.Handler()))
	e.GET("/nav", func(c echo.Context) error {
		return c.JSON(http.StatusOK, a.Session.Nav())
	})

	root := e.Group("")
	gated := e.Group("/admin", auth.RequireAdmin(a.Gate, a.Admin.Token))

	doctor.NewHandler(a.Doctors).RegisterRoutes(root)
	portal.NewHandler(a.Portal, a.Session).RegisterRoutes(root)
	admin.NewHandler(a.Admin, appointment.NewBoard(a.Appointments)).RegisterRoutes(root, gated,
		middleware.RateLimit(middleware.DefaultLoginRateLimit()))
	report.NewHandler(a.ReportRepo).RegisterRoutes(gated)

	return e
}

// syncSession re-reads the session file before each request so that a login
// from the CLI is visible without a restart.
func syncSession(a *app.App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := a.Session.Sync(); err != nil {
				a.Logger.Warn().Err(err).Msg("session sync failed")
			}
			return next(c)
		}
	}
}
