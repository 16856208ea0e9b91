package portal

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mediway/mediway/internal/domain/appointment"
	"github.com/mediway/mediway/internal/domain/doctor"
	"github.com/mediway/mediway/internal/domain/patient"
	"github.com/mediway/mediway/internal/domain/record"
	"github.com/mediway/mediway/internal/platform/api"
)

// MsgDeskLoadFailed is shown when the doctor or their appointments fail to load.
const MsgDeskLoadFailed = "Failed to load"

var ErrDoctorRequired = errors.New(record.MsgDoctorRequired)

type Service struct {
	patients *patient.Service
	doctors  *doctor.Service
	appts    *appointment.Service
	records  *record.Service
	logger   zerolog.Logger
}

func NewService(patients *patient.Service, doctors *doctor.Service, appts *appointment.Service, records *record.Service, logger zerolog.Logger) *Service {
	return &Service{patients: patients, doctors: doctors, appts: appts, records: records, logger: logger}
}

// Profile loads the patient, their appointments and their records at once.
// A failed part is logged and left empty. An empty health ID yields an empty
// profile without any request.
func (s *Service) Profile(ctx context.Context, healthID string) (*Profile, error) {
	healthID = strings.TrimSpace(healthID)
	p := &Profile{HealthID: healthID, Appointments: []appointment.Appointment{}, Records: []record.MedicalRecord{}}
	if healthID == "" {
		return p, nil
	}

	var (
		g     errgroup.Group
		pat   *patient.Patient
		appts []appointment.Appointment
		recs  []record.MedicalRecord
	)
	g.Go(func() error {
		var err error
		pat, err = s.patients.Get(ctx, healthID)
		s.tolerate(err, "patient")
		return nil
	})
	g.Go(func() error {
		var err error
		appts, err = s.appts.Mine(ctx, healthID)
		s.tolerate(err, "appointments")
		return nil
	})
	g.Go(func() error {
		var err error
		recs, err = s.records.ListForPatient(ctx, healthID)
		s.tolerate(err, "records")
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.Patient = pat
	if appts != nil {
		p.Appointments = appts
	}
	if recs != nil {
		p.Records = recs
	}
	if pat != nil {
		p.QRURL = s.patients.QRURL(pat.HealthID, false)
	}
	return p, nil
}

func (s *Service) tolerate(err error, part string) {
	if err != nil {
		s.logger.Debug().Err(err).Str("part", part).Msg("profile part unavailable")
	}
}

// Reschedule moves an appointment and reloads the profile. The reload happens
// even when the backend refused the change; that error is returned alongside
// the fresh profile. With nothing to change no request is made.
func (s *Service) Reschedule(ctx context.Context, healthID string, id int64, date, t string) (*Profile, error) {
	_, err := s.appts.Reschedule(ctx, id, strings.TrimSpace(date), strings.TrimSpace(t))
	if errors.Is(err, appointment.ErrNoChange) || errors.Is(err, appointment.ErrInvalidID) {
		return nil, err
	}
	return s.reload(ctx, healthID, err)
}

// Cancel cancels an appointment and reloads the profile.
func (s *Service) Cancel(ctx context.Context, healthID string, id int64) (*Profile, error) {
	_, err := s.appts.Cancel(ctx, id)
	if errors.Is(err, appointment.ErrInvalidID) {
		return nil, err
	}
	return s.reload(ctx, healthID, err)
}

func (s *Service) reload(ctx context.Context, healthID string, actErr error) (*Profile, error) {
	p, err := s.Profile(ctx, healthID)
	if err != nil {
		return nil, err
	}
	return p, actErr
}

// Desk loads the doctor and then their appointments. The first failure stops
// the load and becomes the desk's error message.
func (s *Service) Desk(ctx context.Context, doctorID string) (*Desk, error) {
	id, err := parseDoctorID(doctorID)
	if err != nil {
		return nil, err
	}
	desk := &Desk{Appointments: []appointment.Appointment{}}

	d, err := s.doctors.Get(ctx, id)
	if err != nil {
		desk.Error = api.Message(err, MsgDeskLoadFailed)
		return desk, nil
	}
	desk.Doctor = d
	desk.PhotoURL = s.doctors.PhotoURL(id)

	list, err := s.appts.ByDoctor(ctx, id)
	if err != nil {
		desk.Error = api.Message(err, MsgDeskLoadFailed)
		return desk, nil
	}
	if list != nil {
		desk.Appointments = list
	}
	return desk, nil
}

// SaveRecord saves draft under the signed-in doctor. The draft is cleared
// only on success.
func (s *Service) SaveRecord(ctx context.Context, doctorID string, draft *record.Draft) (SaveResult, error) {
	id, err := parseDoctorID(doctorID)
	if err != nil {
		return SaveResult{Status: record.MsgDoctorRequired}, err
	}
	recID, err := s.records.Save(ctx, id, draft)
	if err != nil {
		return SaveResult{Status: api.Message(err, record.MsgSaveFailed)}, err
	}
	return SaveResult{ID: recID, Status: record.MsgSaved}, nil
}

// PatientRecords fills the desk's record viewer for healthID.
func (s *Service) PatientRecords(ctx context.Context, healthID string) RecordsView {
	v := RecordsView{HealthID: strings.TrimSpace(healthID), Records: []record.MedicalRecord{}}
	list, err := s.records.ListForPatient(ctx, v.HealthID)
	if err != nil {
		v.Error = api.Message(err, record.MsgLoadFailed)
	} else if list != nil {
		v.Records = list
	}
	if len(v.Records) == 0 {
		v.Empty = record.MsgNoRecords
	}
	return v
}

func parseDoctorID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrDoctorRequired
	}
	return id, nil
}
