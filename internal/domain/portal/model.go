// Package portal assembles the patient profile page and the doctor desk from
// the patient, doctor, appointment and record services.
package portal

import (
	"github.com/mediway/mediway/internal/domain/appointment"
	"github.com/mediway/mediway/internal/domain/doctor"
	"github.com/mediway/mediway/internal/domain/patient"
	"github.com/mediway/mediway/internal/domain/record"
)

// Profile is the patient's own page. Any of the three parts may be missing
// when its fetch failed; the others are still shown.
type Profile struct {
	HealthID     string                    `json:"healthId"`
	Patient      *patient.Patient          `json:"patient,omitempty"`
	Appointments []appointment.Appointment `json:"appointments"`
	Records      []record.MedicalRecord    `json:"records"`
	QRURL        string                    `json:"qrUrl,omitempty"`
}

// Desk is the signed-in doctor's page.
type Desk struct {
	Doctor       *doctor.Doctor            `json:"doctor,omitempty"`
	PhotoURL     string                    `json:"photoUrl,omitempty"`
	Appointments []appointment.Appointment `json:"appointments"`
	Error        string                    `json:"error,omitempty"`
}

// RecordsView is the "view patient records" panel on the desk.
type RecordsView struct {
	HealthID string                 `json:"healthId"`
	Records  []record.MedicalRecord `json:"records"`
	Error    string                 `json:"error,omitempty"`
	Empty    string                 `json:"empty,omitempty"`
}

// SaveResult is the inline status under the record form.
type SaveResult struct {
	ID     int64  `json:"id,omitempty"`
	Status string `json:"status"`
}
