package record

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Inline messages on the doctor's record form.
const (
	MsgSaved          = "Record saved successfully."
	MsgSaveFailed     = "Failed to save"
	MsgLoadFailed     = "Failed to load records"
	MsgNoRecords      = "No records to show."
	MsgDoctorRequired = "Please login as doctor."
)

var (
	ErrNoDoctor        = errors.New("no doctor signed in")
	ErrNoPatient       = errors.New("patient health id is required")
	ErrUnknownField    = errors.New("unknown record field")
	ErrUnknownTemplate = errors.New("unknown template")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save posts the draft under doctorID and resets it on success. A failed save
// leaves the draft as it was.
func (s *Service) Save(ctx context.Context, doctorID int64, d *Draft) (int64, error) {
	if doctorID <= 0 {
		return 0, ErrNoDoctor
	}
	if strings.TrimSpace(d.PatientHealthID) == "" {
		return 0, ErrNoPatient
	}
	out, err := s.repo.Create(ctx, d.toNew(doctorID))
	if err != nil {
		return 0, fmt.Errorf("save record: %w", err)
	}
	d.Reset()
	return out.ID, nil
}

// ListForPatient returns nil without a request for an empty health ID.
func (s *Service) ListForPatient(ctx context.Context, healthID string) ([]MedicalRecord, error) {
	healthID = strings.TrimSpace(healthID)
	if healthID == "" {
		return nil, nil
	}
	list, err := s.repo.ListByPatient(ctx, healthID)
	if err != nil {
		return nil, fmt.Errorf("list records for %s: %w", healthID, err)
	}
	return list, nil
}
