package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type DoctorRef struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// MedicalRecord is one entry from GET /api/patients/{healthId}/records.
type MedicalRecord struct {
	ID              int64      `json:"id"`
	CreatedAt       Timestamp  `json:"createdAt"`
	PatientHealthID string     `json:"patientHealthId,omitempty"`
	Diagnosis       string     `json:"diagnosis,omitempty"`
	Prescriptions   string     `json:"prescriptions,omitempty"`
	LabNotes        string     `json:"labNotes,omitempty"`
	Comments        string     `json:"comments,omitempty"`
	Doctor          *DoctorRef `json:"doctor,omitempty"`
}

// DoctorName is the author's name, or "-".
func (r *MedicalRecord) DoctorName() string {
	if r.Doctor == nil || r.Doctor.Name == "" {
		return "-"
	}
	return r.Doctor.Name
}

// NewRecord is the body of POST /api/records.
type NewRecord struct {
	DoctorID        int64  `json:"doctorId"`
	PatientHealthID string `json:"patientHealthId"`
	Diagnosis       string `json:"diagnosis"`
	Prescriptions   string `json:"prescriptions"`
	LabNotes        string `json:"labNotes"`
	Comments        string `json:"comments"`
}

type Created struct {
	ID int64 `json:"id"`
}

// Timestamp decodes the backend's createdAt, which arrives either as an ISO
// offset date-time string or as epoch seconds with a fractional part.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
		return fmt.Errorf("unrecognised timestamp %q", s)
	}
	parsed, err := parseEpoch(string(data))
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// parseEpoch reads "1717236000" or "1717236000.123456789" without going
// through float64, which would lose the nanoseconds.
func parseEpoch(s string) (time.Time, error) {
	whole, frac, _ := strings.Cut(s, ".")
	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return time.Time{}, fmt.Errorf("unrecognised timestamp %s", s)
		}
		i, fr := math.Modf(f)
		return time.Unix(int64(i), int64(fr*1e9)).UTC(), nil
	}
	var nsec int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		frac += strings.Repeat("0", 9-len(frac))
		nsec, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("unrecognised timestamp %s", s)
		}
	}
	return time.Unix(sec, nsec).UTC(), nil
}
