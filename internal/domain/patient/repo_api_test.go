package patient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediway/mediway/internal/platform/api"
)

func newTestAPIRepo(t *testing.T) Repository {
	t.Helper()
	e := echo.New()
	e.POST("/api/patients/register", func(c echo.Context) error {
		var body map[string]interface{}
		if err := c.Bind(&body); err != nil {
			return err
		}
		if _, ok := body["dateOfBirth"]; !ok {
			return c.String(http.StatusBadRequest, "dateOfBirth key missing")
		}
		return c.JSON(http.StatusOK, Registered{ID: 1, FullName: body["fullName"].(string), Email: body["email"].(string), HealthID: "MW-ABC123"})
	})
	e.GET("/api/patients/:healthId", func(c echo.Context) error {
		if c.Param("healthId") != "MW-ABC123" {
			return c.String(http.StatusBadRequest, "Patient not found")
		}
		return c.JSON(http.StatusOK, Patient{ID: 1, HealthID: "MW-ABC123", FullName: "Jane Doe", DateOfBirth: "1990-02-03"})
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL)
	require.NoError(t, err)
	return NewAPIRepo(client)
}

func TestAPIRepo_RegisterJaneDoe(t *testing.T) {
	repo := newTestAPIRepo(t)
	svc := NewService(repo, nil)

	w, err := svc.Register(context.Background(), &Registration{FullName: "Jane Doe", Email: "jane@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", w.Name)
	assert.NotEmpty(t, w.HealthID)
	assert.Contains(t, w.QRURL, "/api/patients/MW-ABC123/qr")
}

func TestAPIRepo_GetByHealthID(t *testing.T) {
	repo := newTestAPIRepo(t)

	p, err := repo.GetByHealthID(context.Background(), "MW-ABC123")
	require.NoError(t, err)
	assert.Equal(t, "1990-02-03", p.DateOfBirth)

	_, err = repo.GetByHealthID(context.Background(), "MW-NOPE")
	require.Error(t, err)
	assert.Equal(t, "Patient not found", api.Message(err, ""))
}

func TestAPIRepo_QRURL(t *testing.T) {
	repo := newTestAPIRepo(t)
	assert.Contains(t, repo.QRURL("MW 1", true), "/api/patients/MW%201/qr?download=true")
}
