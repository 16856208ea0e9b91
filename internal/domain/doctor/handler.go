package doctor

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mediway/mediway/internal/platform/api"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/doctors", h.List)
	g.GET("/doctors/:id/photo", h.Photo)
}

// List serves the doctor directory, filtered by ?q= over name and
// specialization.
func (h *Handler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, api.Message(err, "Failed to load doctors"))
	}
	return c.JSON(http.StatusOK, Filter(list, c.QueryParam("q")))
}

func (h *Handler) Photo(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	d, err := h.svc.Photo(c.Request().Context(), id)
	if err != nil {
		if api.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, "photo not found")
		}
		return echo.NewHTTPError(http.StatusBadGateway, api.Message(err, "Failed to load photo"))
	}
	defer d.Body.Close()

	ct := d.ContentType
	if ct == "" {
		ct = "image/jpeg"
	}
	c.Response().Header().Set(echo.HeaderContentType, ct)
	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response(), d.Body)
	return err
}
