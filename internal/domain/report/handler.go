package report

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mediway/mediway/internal/platform/api"
)

type Handler struct {
	repo Repository
	now  func() time.Time
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo, now: time.Now}
}

// RegisterRoutes mounts the report routes. The group is expected to be
// behind the admin gate.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/reports", h.Dashboard)
	g.GET("/reports/charts/:chart", h.Chart)
	g.GET("/reports/export/:kind", h.Export)
	g.GET("/reports/workbook", h.Workbook)
}

// load runs a dashboard of its own for the request's filters, so
// overlapping requests never see each other's filters or data.
func (h *Handler) load(c echo.Context) (Snapshot, error) {
	f, err := ParseFilters(c.QueryParams())
	if err != nil {
		return Snapshot{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	dash := NewDashboard(h.repo)
	dash.Load(ctx, f)
	if err := dash.Wait(ctx); err != nil {
		return Snapshot{}, err
	}
	return dash.Snapshot(h.now()), nil
}

func (h *Handler) Dashboard(c echo.Context) error {
	snap, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) Chart(c echo.Context) error {
	kind, err := ParseChartKind(c.Param("chart"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	snap, err := h.load(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := RenderChart(&buf, kind, snap); err != nil {
		return fmt.Errorf("render chart %s: %w", kind, err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// Export proxies a backend download under the backend's file name.
func (h *Handler) Export(c echo.Context) error {
	kind, err := ParseExportKind(c.Param("kind"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	f, err := ParseFilters(c.QueryParams())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.repo.Export(c.Request().Context(), kind, f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, api.Message(err, "Export failed"))
	}
	defer d.Body.Close()

	name := d.FileName
	if name == "" {
		name = kind.DefaultFileName(f)
	}
	ct := d.ContentType
	if ct == "" {
		ct = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	c.Response().Header().Set(echo.HeaderContentType, ct)
	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response(), d.Body)
	return err
}

func (h *Handler) Workbook(c echo.Context) error {
	snap, err := h.load(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, snap); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", WorkbookFileName))
	return c.Blob(http.StatusOK, WorkbookContentType, buf.Bytes())
}
