package record

import "strings"

// Draft is the doctor's record form before it is saved.
type Draft struct {
	PatientHealthID string `json:"patientHealthId"`
	Diagnosis       string `json:"diagnosis"`
	Prescriptions   string `json:"prescriptions"`
	LabNotes        string `json:"labNotes"`
	Comments        string `json:"comments"`
}

func (d *Draft) field(f Field) (*string, error) {
	switch f {
	case FieldDiagnosis:
		return &d.Diagnosis, nil
	case FieldPrescriptions:
		return &d.Prescriptions, nil
	case FieldLabNotes:
		return &d.LabNotes, nil
	case FieldComments:
		return &d.Comments, nil
	}
	return nil, ErrUnknownField
}

// ApplyTemplate composes template into the named field.
func (d *Draft) ApplyTemplate(f Field, template string, appendMode bool) error {
	p, err := d.field(f)
	if err != nil {
		return err
	}
	*p = Compose(*p, template, appendMode)
	return nil
}

// ApplyNamedTemplate looks up a catalog template by label and applies it.
func (d *Draft) ApplyNamedTemplate(f Field, label string, appendMode bool) error {
	t, ok := FindTemplate(f, label)
	if !ok {
		return ErrUnknownTemplate
	}
	return d.ApplyTemplate(f, t.Text, appendMode)
}

func (d *Draft) Reset() { *d = Draft{} }

func (d *Draft) toNew(doctorID int64) NewRecord {
	return NewRecord{
		DoctorID:        doctorID,
		PatientHealthID: strings.TrimSpace(d.PatientHealthID),
		Diagnosis:       d.Diagnosis,
		Prescriptions:   d.Prescriptions,
		LabNotes:        d.LabNotes,
		Comments:        d.Comments,
	}
}
