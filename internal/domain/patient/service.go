package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mediway/mediway/internal/platform/api"
)

var (
	ErrRequired     = errors.New("full name, email and password are required")
	ErrNoHealthID   = errors.New("no health id")
	ErrLoginMissing = errors.New("email and password are required")
)

// SessionWriter remembers the signed-in patient.
type SessionWriter interface {
	SetPatient(healthID string) error
}

type Service struct {
	repo    Repository
	session SessionWriter
}

func NewService(repo Repository, session SessionWriter) *Service {
	return &Service{repo: repo, session: session}
}

// Welcome is the success view shown after registration.
type Welcome struct {
	Name        string `json:"name"`
	HealthID    string `json:"healthId"`
	QRURL       string `json:"qrUrl"`
	DownloadURL string `json:"downloadUrl"`
}

func (s *Service) Register(ctx context.Context, reg *Registration) (*Welcome, error) {
	if strings.TrimSpace(reg.FullName) == "" || strings.TrimSpace(reg.Email) == "" || reg.Password == "" {
		return nil, ErrRequired
	}
	if reg.DateOfBirth != nil && *reg.DateOfBirth == "" {
		reg.DateOfBirth = nil
	}
	out, err := s.repo.Register(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("register patient: %w", err)
	}
	return &Welcome{
		Name:        out.FullName,
		HealthID:    out.HealthID,
		QRURL:       s.repo.QRURL(out.HealthID, false),
		DownloadURL: s.repo.QRURL(out.HealthID, true),
	}, nil
}

// Login authenticates and stores the health ID in the session.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", ErrLoginMissing
	}
	out, err := s.repo.Login(ctx, Credentials{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("patient login: %w", err)
	}
	if out.HealthID == "" {
		return "", fmt.Errorf("patient login: %w", ErrNoHealthID)
	}
	if s.session != nil {
		if err := s.session.SetPatient(out.HealthID); err != nil {
			return "", fmt.Errorf("store session: %w", err)
		}
	}
	return out.HealthID, nil
}

// Get returns nil without error for an empty health ID.
func (s *Service) Get(ctx context.Context, healthID string) (*Patient, error) {
	if strings.TrimSpace(healthID) == "" {
		return nil, nil
	}
	return s.repo.GetByHealthID(ctx, strings.TrimSpace(healthID))
}

func (s *Service) QR(ctx context.Context, healthID string, download bool) (*api.Download, error) {
	if healthID == "" {
		return nil, ErrNoHealthID
	}
	return s.repo.QR(ctx, healthID, download)
}

func (s *Service) QRURL(healthID string, download bool) string {
	return s.repo.QRURL(healthID, download)
}
