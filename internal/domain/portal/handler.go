package portal

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mediway/mediway/internal/domain/appointment"
	"github.com/mediway/mediway/internal/domain/record"
	"github.com/mediway/mediway/internal/platform/api"
)

// SessionReader exposes the signed-in identities.
type SessionReader interface {
	HealthID() string
	DoctorID() string
}

type Handler struct {
	svc     *Service
	session SessionReader
}

func NewHandler(svc *Service, session SessionReader) *Handler {
	return &Handler{svc: svc, session: session}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/profile", h.Profile)
	g.POST("/profile/appointments/:id/reschedule", h.Reschedule)
	g.POST("/profile/appointments/:id/cancel", h.Cancel)

	g.GET("/doctor/desk", h.Desk)
	g.GET("/doctor/records", h.PatientRecords)
	g.POST("/doctor/records", h.SaveRecord)
}

// healthID prefers an explicit ?healthId over the session's.
func (h *Handler) healthID(c echo.Context) string {
	if id := c.QueryParam("healthId"); id != "" {
		return id
	}
	return h.session.HealthID()
}

func (h *Handler) Profile(c echo.Context) error {
	p, err := h.svc.Profile(c.Request().Context(), h.healthID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

type rescheduleRequest struct {
	Date string `json:"date" form:"date" query:"date"`
	Time string `json:"time" form:"time" query:"time"`
}

func (h *Handler) Reschedule(c echo.Context) error {
	id, err := appointmentID(c)
	if err != nil {
		return err
	}
	var req rescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.Reschedule(c.Request().Context(), h.healthID(c), id, req.Date, req.Time)
	return h.mutation(c, p, err, "Reschedule failed")
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := appointmentID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Cancel(c.Request().Context(), h.healthID(c), id)
	return h.mutation(c, p, err, "Cancel failed")
}

func (h *Handler) mutation(c echo.Context, p *Profile, err error, fallback string) error {
	switch {
	case errors.Is(err, appointment.ErrNoChange):
		return c.NoContent(http.StatusNoContent)
	case p == nil && err != nil:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		return c.JSON(http.StatusBadGateway, map[string]interface{}{
			"error":   api.Message(err, fallback),
			"profile": p,
		})
	}
	return c.JSON(http.StatusOK, p)
}

func appointmentID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	return id, nil
}

func (h *Handler) Desk(c echo.Context) error {
	d, err := h.svc.Desk(c.Request().Context(), h.session.DoctorID())
	if errors.Is(err, ErrDoctorRequired) {
		return echo.NewHTTPError(http.StatusUnauthorized, record.MsgDoctorRequired)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) PatientRecords(c echo.Context) error {
	if h.session.DoctorID() == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, record.MsgDoctorRequired)
	}
	return c.JSON(http.StatusOK, h.svc.PatientRecords(c.Request().Context(), c.QueryParam("healthId")))
}

func (h *Handler) SaveRecord(c echo.Context) error {
	var draft record.Draft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	res, err := h.svc.SaveRecord(c.Request().Context(), h.session.DoctorID(), &draft)
	switch {
	case errors.Is(err, ErrDoctorRequired):
		return echo.NewHTTPError(http.StatusUnauthorized, res.Status)
	case errors.Is(err, record.ErrNoPatient):
		return echo.NewHTTPError(http.StatusBadRequest, res.Status)
	case err != nil:
		return c.JSON(http.StatusBadGateway, res)
	}
	return c.JSON(http.StatusCreated, res)
}
