package portal

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mediway/mediway/internal/domain/appointment"
	"github.com/mediway/mediway/internal/domain/doctor"
	"github.com/mediway/mediway/internal/domain/patient"
	"github.com/mediway/mediway/internal/domain/record"
	"github.com/mediway/mediway/internal/platform/api"
)

type fakeBackend struct {
	mu         sync.Mutex
	status     map[string]string
	mineCalls  int
	reschedule []string
	failMine   bool
	records    []record.NewRecord
}

func (f *fakeBackend) mine() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mineCalls
}

func newFakeBackend(t *testing.T) (*fakeBackend, *api.Client) {
	t.Helper()
	f := &fakeBackend{status: map[string]string{"11": "PENDING", "12": "CONFIRMED"}}
	e := echo.New()

	e.GET("/api/patients/:healthId", func(c echo.Context) error {
		if c.Param("healthId") != "MW-1" {
			return c.String(http.StatusNotFound, "Patient not found")
		}
		return c.JSON(http.StatusOK, patient.Patient{ID: 1, HealthID: "MW-1", FullName: "Jane Doe", Email: "jane@x.com"})
	})
	e.GET("/api/patients/:healthId/records", func(c echo.Context) error {
		if c.Param("healthId") != "MW-1" {
			return c.String(http.StatusNotFound, "Patient not found")
		}
		return c.JSONBlob(http.StatusOK, []byte(`[{"id":5,"createdAt":"2025-06-02T09:00:00Z","diagnosis":"URTI","doctor":{"id":7,"name":"Strange"}}]`))
	})
	e.GET("/api/appointments/mine", func(c echo.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.mineCalls++
		if f.failMine {
			return c.String(http.StatusInternalServerError, "<html>down</html>")
		}
		if c.QueryParam("healthId") != "MW-1" {
			return c.JSON(http.StatusOK, []appointment.Appointment{})
		}
		return c.JSON(http.StatusOK, []appointment.Appointment{
			{ID: 11, Date: "2025-06-01", Time: "09:00", Status: appointment.Status(f.status["11"])},
			{ID: 12, Date: "2025-06-02", Time: "10:00", Status: appointment.Status(f.status["12"])},
		})
	})
	e.PUT("/api/appointments/:id", func(c echo.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.reschedule = append(f.reschedule, c.Param("id")+"?"+c.Request().URL.RawQuery)
		return c.JSON(http.StatusOK, map[string]interface{}{"id": 11})
	})
	e.DELETE("/api/appointments/:id", func(c echo.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.status[c.Param("id")]; !ok {
			return c.String(http.StatusBadRequest, "Appointment not found")
		}
		f.status[c.Param("id")] = "CANCELLED"
		return c.JSON(http.StatusOK, map[string]string{"status": "CANCELLED"})
	})
	e.GET("/api/doctors/:id", func(c echo.Context) error {
		switch c.Param("id") {
		case "7", "8":
			return c.JSON(http.StatusOK, doctor.Doctor{ID: 7, Name: "Strange", Specialization: "Neurology"})
		}
		return c.String(http.StatusNotFound, "Doctor not found")
	})
	e.GET("/api/doctors/:id/appointments", func(c echo.Context) error {
		if c.Param("id") == "8" {
			return c.String(http.StatusInternalServerError, "Database unavailable")
		}
		return c.JSON(http.StatusOK, []appointment.Appointment{{ID: 11, Date: "2025-06-01", Time: "09:00", Status: appointment.StatusPending}})
	})
	e.POST("/api/records", func(c echo.Context) error {
		var in record.NewRecord
		if err := c.Bind(&in); err != nil {
			return err
		}
		if in.PatientHealthID != "MW-1" {
			return c.String(http.StatusBadRequest, "Patient not found")
		}
		f.mu.Lock()
		f.records = append(f.records, in)
		id := len(f.records)
		f.mu.Unlock()
		return c.JSON(http.StatusOK, record.Created{ID: int64(id)})
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	client, err := api.New(srv.URL)
	require.NoError(t, err)
	return f, client
}

func newTestService(t *testing.T) (*Service, *fakeBackend) {
	t.Helper()
	f, client := newFakeBackend(t)
	svc := NewService(
		patient.NewService(patient.NewAPIRepo(client), nil),
		doctor.NewService(doctor.NewAPIRepo(client), nil),
		appointment.NewService(appointment.NewAPIRepo(client)),
		record.NewService(record.NewAPIRepo(client)),
		zerolog.Nop(),
	)
	return svc, f
}
