// Package metrics exposes Prometheus counters for backend calls and console
// requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so several instances can coexist in
// tests.
type Collector struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiDuration *prometheus.HistogramVec
	httpTotal   *prometheus.CounterVec
	refreshes   *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mediway",
				Name:      "api_requests_total",
				Help:      "Backend requests by method, route and status code (0 for transport failures).",
			},
			[]string{"method", "route", "status_code"},
		),
		apiDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "mediway",
				Name:      "api_request_duration_seconds",
				Help:      "Backend request latency in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		httpTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mediway",
				Name:      "console_requests_total",
				Help:      "Console HTTP requests by method, path and status code.",
			},
			[]string{"method", "path", "status_code"},
		),
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mediway",
				Name:      "report_refreshes_total",
				Help:      "Scheduled report refreshes by outcome.",
			},
			[]string{"outcome"},
		),
	}
	c.registry.MustRegister(
		c.apiRequests,
		c.apiDuration,
		c.httpTotal,
		c.refreshes,
		collectors.NewGoCollector(),
	)
	return c
}

// ObserveRequest implements api.Recorder.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.apiDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveRefresh counts one scheduled dashboard refresh.
func (c *Collector) ObserveRefresh(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.refreshes.WithLabelValues(outcome).Inc()
}

// Middleware counts console requests by their matched route.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			err := next(ec)
			status := ec.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			path := ec.Path()
			if path == "" {
				path = "unmatched"
			}
			c.httpTotal.WithLabelValues(ec.Request().Method, path, strconv.Itoa(status)).Inc()
			return err
		}
	}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }
