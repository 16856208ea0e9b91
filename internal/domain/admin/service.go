package admin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mediway/mediway/internal/platform/auth"
	"github.com/mediway/mediway/internal/platform/session"
)

var ErrMissingCredentials = errors.New("username and password are required")

// Session is the slice of the session holder the admin gate touches.
type Session interface {
	AdminToken() string
	SetAdminToken(tok string) error
	Logout(kind session.Kind) (string, error)
}

type Service struct {
	gate    *auth.Gate
	session Session
	logger  zerolog.Logger
}

func NewService(gate *auth.Gate, sess Session, logger zerolog.Logger) *Service {
	return &Service{gate: gate, session: sess, logger: logger}
}

// Login exchanges the credentials for a token and stores it in the session.
func (s *Service) Login(username, password string) (*LoginResponse, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	tok, err := s.gate.Login(username, password)
	if err != nil {
		s.logger.Warn().Str("username", username).Msg("admin login rejected")
		return nil, err
	}
	if err := s.session.SetAdminToken(tok); err != nil {
		return nil, fmt.Errorf("store admin token: %w", err)
	}
	s.logger.Info().Str("username", username).Msg("admin login")
	return &LoginResponse{Token: tok, Redirect: RouteAppointments}, nil
}

// Logout drops the admin token and returns the route to the login page.
func (s *Service) Logout() (string, error) {
	return s.session.Logout(session.Admin)
}

// LoggedIn reports whether the session holds a token the gate still accepts.
func (s *Service) LoggedIn() bool {
	_, err := s.gate.Verify(s.session.AdminToken())
	return err == nil
}

// Token is the stored admin token, used as the gate's fallback when a
// request carries none.
func (s *Service) Token() string {
	return s.session.AdminToken()
}
