package appointment

import (
	"fmt"
	"strings"
	"time"
)

// Status is the backend's appointment lifecycle state. The client never
// decides transitions; it only displays what the backend returns.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusRejected, StatusCancelled}

const defaultColor = "#6b7280"

var statusColors = map[Status]string{
	StatusPending:   "#f59e0b",
	StatusConfirmed: "#10b981",
	StatusRejected:  "#ef4444",
	StatusCancelled: "#6b7280",
}

// Color is the badge color for s; unknown statuses are grey.
func (s Status) Color() string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return defaultColor
}

// ParseStatus accepts any case. The empty string parses to "" (no filter).
func ParseStatus(s string) (Status, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, st := range Statuses {
		if Status(s) == st {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

type PatientRef struct {
	ID       int64  `json:"id"`
	HealthID string `json:"healthId"`
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type DoctorRef struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Specialization string `json:"specialization"`
}

// Appointment is one booking. Date is YYYY-MM-DD and Time is the slot start
// as the backend formats it.
type Appointment struct {
	ID      int64       `json:"id"`
	Patient *PatientRef `json:"patient,omitempty"`
	Doctor  *DoctorRef  `json:"doctor,omitempty"`
	Date    string      `json:"date"`
	Time    string      `json:"time"`
	Status  Status      `json:"status"`
}

func (a *Appointment) PatientName() string {
	if a.Patient == nil || a.Patient.FullName == "" {
		return "-"
	}
	return a.Patient.FullName
}

func (a *Appointment) PatientHealthID() string {
	if a.Patient == nil || a.Patient.HealthID == "" {
		return "-"
	}
	return a.Patient.HealthID
}

func (a *Appointment) DoctorName() string {
	if a.Doctor == nil || a.Doctor.Name == "" {
		return "-"
	}
	return a.Doctor.Name
}

func (a *Appointment) Specialization() string {
	if a.Doctor == nil || a.Doctor.Specialization == "" {
		return "-"
	}
	return a.Doctor.Specialization
}

// SlotKey identifies one slot list.
type SlotKey struct {
	DoctorID int64
	Date     string
}

// DateLayout is the wire format for appointment dates.
const DateLayout = "2006-01-02"

// ShortTime trims seconds from an HH:MM:SS slot for display.
func ShortTime(t string) string {
	if len(t) == len("15:04:05") && strings.Count(t, ":") == 2 {
		return t[:5]
	}
	return t
}

// ValidateDate rejects malformed dates and dates before today in now's
// location.
func ValidateDate(date string, now time.Time) error {
	d, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return fmt.Errorf("%w: %s is before %s", ErrPastDate, date, today.Format(DateLayout))
	}
	return nil
}
