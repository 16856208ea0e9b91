package doctor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mediway/mediway/internal/platform/api"
)

var (
	ErrRequired      = errors.New("name, email and specialization are required")
	ErrEmailNotFound = errors.New("doctor email not found, please contact admin")
	ErrMissingLogin  = errors.New("email and password are required")
	ErrInvalidDoctor = errors.New("invalid doctor id")
)

const defaultDoctorName = "Doctor"

// SessionWriter remembers the signed-in doctor.
type SessionWriter interface {
	SetDoctor(id, name string) error
}

type Service struct {
	repo    Repository
	session SessionWriter
}

func NewService(repo Repository, session SessionWriter) *Service {
	return &Service{repo: repo, session: session}
}

// List returns all doctors. A failed load yields an empty list and the error.
func (s *Service) List(ctx context.Context) ([]Doctor, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return []Doctor{}, fmt.Errorf("list doctors: %w", err)
	}
	if list == nil {
		list = []Doctor{}
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Doctor, error) {
	if id <= 0 {
		return nil, ErrInvalidDoctor
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, f Form) (*Doctor, error) {
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Email) == "" || strings.TrimSpace(f.Specialization) == "" {
		return nil, ErrRequired
	}
	d, err := s.repo.Create(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	return d, nil
}

func (s *Service) Update(ctx context.Context, id int64, f Form) (*Doctor, error) {
	if id <= 0 {
		return nil, ErrInvalidDoctor
	}
	d, err := s.repo.Update(ctx, id, f)
	if err != nil {
		return nil, fmt.Errorf("update doctor %d: %w", id, err)
	}
	return d, nil
}

// Delete removes the doctor and returns the reloaded list.
func (s *Service) Delete(ctx context.Context, id int64) ([]Doctor, error) {
	if id <= 0 {
		return nil, ErrInvalidDoctor
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete doctor %d: %w", id, err)
	}
	return s.List(ctx)
}

func (s *Service) Photo(ctx context.Context, id int64) (*api.Download, error) {
	return s.repo.Photo(ctx, id)
}

func (s *Service) PhotoURL(id int64) string {
	return s.repo.PhotoURL(id)
}

func (s *Service) SetPassword(ctx context.Context, id int64, password string) error {
	if id <= 0 {
		return ErrInvalidDoctor
	}
	if err := s.repo.SetPassword(ctx, id, password); err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

// Login authenticates and stores the doctor's id and display name in the
// session.
func (s *Service) Login(ctx context.Context, email, password string) (*Doctor, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingLogin
	}
	d, err := s.repo.Login(ctx, Credentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("doctor login: %w", err)
	}
	if s.session != nil {
		name := d.Name
		if name == "" {
			name = defaultDoctorName
		}
		if err := s.session.SetDoctor(d.IDString(), name); err != nil {
			return nil, fmt.Errorf("store session: %w", err)
		}
	}
	return d, nil
}

// Signup sets the first password for a doctor the admin already created,
// located by case-insensitive email match.
func (s *Service) Signup(ctx context.Context, email, password string) (*Doctor, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingLogin
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	var found *Doctor
	for i := range list {
		if strings.EqualFold(list[i].Email, strings.TrimSpace(email)) {
			found = &list[i]
			break
		}
	}
	if found == nil {
		return nil, ErrEmailNotFound
	}
	if err := s.SetPassword(ctx, found.ID, password); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Service) SearchBySpecialization(ctx context.Context, specialization string) ([]Doctor, error) {
	list, err := s.repo.SearchBySpecialization(ctx, specialization)
	if err != nil {
		return nil, fmt.Errorf("search doctors: %w", err)
	}
	return list, nil
}

// Filter keeps doctors whose name or specialization contains q, ignoring
// case. An empty q returns the list unchanged.
func Filter(list []Doctor, q string) []Doctor {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return list
	}
	out := make([]Doctor, 0, len(list))
	for _, d := range list {
		if strings.Contains(strings.ToLower(d.Name), q) || strings.Contains(strings.ToLower(d.Specialization), q) {
			out = append(out, d)
		}
	}
	return out
}

// Specializations returns the distinct specializations in list, sorted.
func Specializations(list []Doctor) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range list {
		if d.Specialization == "" || seen[d.Specialization] {
			continue
		}
		seen[d.Specialization] = true
		out = append(out, d.Specialization)
	}
	sort.Strings(out)
	return out
}
