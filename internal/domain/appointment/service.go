package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Inline messages shown on the booking form.
const (
	MsgIncomplete    = "Please complete all fields."
	MsgBookingFailed = "Booking failed"
)

var (
	ErrIncomplete    = errors.New("booking is incomplete")
	ErrBookingFailed = errors.New("booking failed")
	ErrUnknownSlot   = errors.New("slot is not in the available list")
	ErrPastDate      = errors.New("date is in the past")
	ErrNoChange      = errors.New("nothing to reschedule")
	ErrInvalidID     = errors.New("invalid appointment id")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Slots returns the open slots for key. A missing doctor or date yields no
// slots and no request.
func (s *Service) Slots(ctx context.Context, key SlotKey) ([]string, error) {
	if key.DoctorID <= 0 || key.Date == "" {
		return nil, nil
	}
	slots, err := s.repo.Slots(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load slots for doctor %d on %s: %w", key.DoctorID, key.Date, err)
	}
	return slots, nil
}

func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	if strings.TrimSpace(req.HealthID) == "" || req.DoctorID <= 0 || req.Date == "" || req.Time == "" {
		return nil, ErrIncomplete
	}
	a, err := s.repo.Book(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBookingFailed, err)
	}
	return a, nil
}

// Mine lists the patient's appointments. An empty health ID is an empty list.
func (s *Service) Mine(ctx context.Context, healthID string) ([]Appointment, error) {
	if strings.TrimSpace(healthID) == "" {
		return nil, nil
	}
	list, err := s.repo.ListMine(ctx, strings.TrimSpace(healthID))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return list, nil
}

// Reschedule moves an appointment. With both date and time empty nothing is
// sent and ErrNoChange is returned.
func (s *Service) Reschedule(ctx context.Context, id int64, date, t string) (*Appointment, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	if date == "" && t == "" {
		return nil, ErrNoChange
	}
	a, err := s.repo.Reschedule(ctx, id, date, t)
	if err != nil {
		return nil, fmt.Errorf("reschedule appointment %d: %w", id, err)
	}
	return a, nil
}

func (s *Service) Cancel(ctx context.Context, id int64) (*Appointment, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	a, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cancel appointment %d: %w", id, err)
	}
	return a, nil
}

func (s *Service) ByDoctor(ctx context.Context, doctorID int64) ([]Appointment, error) {
	if doctorID <= 0 {
		return nil, ErrInvalidID
	}
	list, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list appointments for doctor %d: %w", doctorID, err)
	}
	return list, nil
}

// AdminList lists every appointment, or only those in status when set.
func (s *Service) AdminList(ctx context.Context, status Status) ([]Appointment, error) {
	list, err := s.repo.AdminList(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list admin appointments: %w", err)
	}
	return list, nil
}

func (s *Service) Confirm(ctx context.Context, id int64) (*Appointment, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	a, err := s.repo.Confirm(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("confirm appointment %d: %w", id, err)
	}
	return a, nil
}

func (s *Service) Reject(ctx context.Context, id int64) (*Appointment, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	a, err := s.repo.Reject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reject appointment %d: %w", id, err)
	}
	return a, nil
}
