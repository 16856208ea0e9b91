// Package app builds the shared object graph used by both the CLI and the
// console server.
package app

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mediway/mediway/internal/config"
	"github.com/mediway/mediway/internal/domain/admin"
	"github.com/mediway/mediway/internal/domain/appointment"
	"github.com/mediway/mediway/internal/domain/doctor"
	"github.com/mediway/mediway/internal/domain/patient"
	"github.com/mediway/mediway/internal/domain/portal"
	"github.com/mediway/mediway/internal/domain/record"
	"github.com/mediway/mediway/internal/domain/report"
	"github.com/mediway/mediway/internal/platform/api"
	"github.com/mediway/mediway/internal/platform/auth"
	"github.com/mediway/mediway/internal/platform/metrics"
	"github.com/mediway/mediway/internal/platform/session"
)

type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Metrics *metrics.Collector
	Client  *api.Client
	Session *session.Holder
	Gate    *auth.Gate

	Patients     *patient.Service
	Doctors      *doctor.Service
	Appointments *appointment.Service
	Records      *record.Service
	ReportRepo   report.Repository
	Dashboard    *report.Dashboard
	Admin        *admin.Service
	Portal       *portal.Service
}

// New wires every service against the backend named in cfg and loads the
// stored session.
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	m := metrics.New()
	client, err := api.New(cfg.APIBaseURL,
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithLogger(logger),
		api.WithRecorder(m),
	)
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	holder := session.NewHolder(session.NewFileStore(cfg.SessionFile), logger)
	if err := holder.Sync(); err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	gate, err := newGate(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
		Client:  client,
		Session: holder,
		Gate:    gate,
	}
	a.Patients = patient.NewService(patient.NewAPIRepo(client), holder)
	a.Doctors = doctor.NewService(doctor.NewAPIRepo(client), holder)
	a.Appointments = appointment.NewService(appointment.NewAPIRepo(client))
	a.Records = record.NewService(record.NewAPIRepo(client))
	a.ReportRepo = report.NewAPIRepo(client)
	a.Dashboard = report.NewDashboard(a.ReportRepo)
	a.Admin = admin.NewService(gate, holder, logger)
	a.Portal = portal.NewService(a.Patients, a.Doctors, a.Appointments, a.Records, logger)
	return a, nil
}

// newGate falls back to the development password when no hash is configured
// in development.
func newGate(cfg *config.Config) (*auth.Gate, error) {
	hash := cfg.AdminPasswordHash
	if hash == "" && cfg.IsDev() {
		h, err := auth.HashPassword(config.DevAdminPassword)
		if err != nil {
			return nil, err
		}
		hash = h
	}
	gate, err := auth.NewGate(auth.GateConfig{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		Secret:       []byte(cfg.AdminTokenSecret),
		TTL:          cfg.AdminTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("admin gate: %w", err)
	}
	return gate, nil
}

// BookingController builds a booking form bound to the app's services.
func (a *App) BookingController(nav appointment.Navigator) *appointment.Controller {
	return appointment.NewController(a.Appointments, a.Patients, a.Doctors, nav,
		appointment.WithRedirectDelay(a.Config.BookingRedirectDelay),
		appointment.WithBookingLogger(a.Logger),
	)
}

// Watcher builds a report watcher that feeds the app's metrics.
func (a *App) Watcher(f report.Filters) *report.Watcher {
	return report.NewWatcher(a.Dashboard, f, a.Config.ReportRefreshInterval,
		report.WithWatcherLogger(a.Logger),
		report.WithRefreshObserver(a.Metrics),
	)
}
