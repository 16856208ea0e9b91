package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mediway/mediway/internal/domain/appointment"
	"github.com/mediway/mediway/internal/platform/auth"
)

type Handler struct {
	svc   *Service
	board *appointment.Board
}

func NewHandler(svc *Service, board *appointment.Board) *Handler {
	return &Handler{svc: svc, board: board}
}

// RegisterRoutes mounts login and logout on g and the appointment board on
// gated, which must already carry auth.RequireAdmin. loginMW wraps only the
// login route.
func (h *Handler) RegisterRoutes(g, gated *echo.Group, loginMW ...echo.MiddlewareFunc) {
	g.POST("/admin/login", h.Login, loginMW...)
	g.POST("/admin/logout", h.Logout)

	gated.GET("/appointments", h.ListAppointments)
	gated.POST("/appointments/:id/confirm", h.Confirm)
	gated.POST("/appointments/:id/reject", h.Reject)
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	resp, err := h.svc.Login(req.Username, req.Password)
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidCredentials)
	case err != nil:
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     auth.AdminCookie,
		Value:    resp.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Logout(c echo.Context) error {
	route, err := h.svc.Logout()
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     auth.AdminCookie,
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, LoginResponse{Redirect: route})
}

// BoardView is the admin appointment table plus its inline message.
type BoardView struct {
	Items  []appointment.Appointment `json:"items"`
	Status string                    `json:"status,omitempty"`
}

func (h *Handler) view() BoardView {
	return BoardView{Items: h.board.List(), Status: h.board.Status()}
}

func (h *Handler) ListAppointments(c echo.Context) error {
	status, err := appointment.ParseStatus(c.QueryParam("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.board.SetFilter(status)
	if err := h.board.Load(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, h.board.Status())
	}
	return c.JSON(http.StatusOK, h.view())
}

func (h *Handler) Confirm(c echo.Context) error {
	return h.act(c, h.board.Confirm)
}

func (h *Handler) Reject(c echo.Context) error {
	return h.act(c, h.board.Reject)
}

// act runs a board action. The board reloads either way, so a failed action
// still answers with the fresh list and the failure as its status.
func (h *Handler) act(c echo.Context, fn func(ctx context.Context, id int64) error) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	code := http.StatusOK
	if err := fn(c.Request().Context(), id); err != nil {
		code = http.StatusBadGateway
	}
	return c.JSON(code, h.view())
}
