package report

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/mediway/mediway/internal/platform/api"
)

// fakeReports serves the six report endpoints and two exports and counts
// hits per path.
type fakeReports struct {
	mu        sync.Mutex
	hits      map[string]int
	queries   map[string]string
	failDemo  bool
	summaries map[string]string
}

func (f *fakeReports) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeReports) lastQuery(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[path]
}

func newFakeReports(t *testing.T) (*fakeReports, *api.Client) {
	t.Helper()
	f := &fakeReports{
		hits:    map[string]int{},
		queries: map[string]string{},
		summaries: map[string]string{
			"daily":  `{"period":"daily","buckets":{"2025-06-01":{"PENDING":1,"CONFIRMED":"2"},"2025-06-02":{"CANCELLED":1}}}`,
			"weekly": `{"period":"weekly","buckets":{"2025-W01":{"PENDING":2,"CONFIRMED":5}}}`,
		},
	}
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			f.mu.Lock()
			f.hits[c.Request().URL.Path]++
			f.queries[c.Request().URL.Path] = c.Request().URL.RawQuery
			f.mu.Unlock()
			return next(c)
		}
	})
	blob := func(body string) echo.HandlerFunc {
		return func(c echo.Context) error { return c.JSONBlob(http.StatusOK, []byte(body)) }
	}
	e.GET("/api/reports/patients/registration", blob(`{"range":["2025-06-01","2025-06-03"],"series":{"2025-06-03":4,"2025-06-01":2,"2025-06-02":"1"}}`))
	e.GET("/api/reports/patients/demographics", func(c echo.Context) error {
		f.mu.Lock()
		fail := f.failDemo
		f.mu.Unlock()
		if fail {
			return c.String(http.StatusInternalServerError, "<html>boom</html>")
		}
		return c.JSONBlob(http.StatusOK, []byte(`{"gender":{"F":3,"M":2},"ageBuckets":{"<18":1,"18-30":2,"31-45":0,"46-60":1,">60":1}}`))
	})
	e.GET("/api/reports/doctors/appointment-load", blob(`{"Dr. Who":3,"Dr. Strange":5,"Dr. House":3}`))
	e.GET("/api/reports/appointments/summary", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(f.summaries[c.QueryParam("period")]))
	})
	e.GET("/api/reports/appointments/by-specialization", blob(`{"Cardiology":2,"Neurology":7,"Dermatology":2}`))
	e.GET("/api/reports/appointments/cancellations", blob(`{"2025-05-01":4,"2025-06-01":1,"2025-06-10":2,"bogus":9}`))
	e.GET("/api/reports/export/appointments/summary.csv", func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=appointment-summary-"+c.QueryParam("period")+".csv")
		return c.Blob(http.StatusOK, "text/csv", []byte("bucket,PENDING,CONFIRMED,REJECTED,CANCELLED\n2025-W01,2,5,0,0"))
	})
	e.GET("/api/reports/export/appointments.pdf", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/pdf", []byte("%PDF-1.4"))
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	client, err := api.New(srv.URL)
	require.NoError(t, err)
	return f, client
}
