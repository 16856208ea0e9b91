package report

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ExportKind names one of the backend's download endpoints.
type ExportKind string

const (
	ExportRegistrationCSV   ExportKind = "registration-csv"
	ExportDemographicsCSV   ExportKind = "demographics-csv"
	ExportDoctorLoadCSV     ExportKind = "doctor-load-csv"
	ExportSummaryCSV        ExportKind = "summary-csv"
	ExportSpecializationCSV ExportKind = "specialization-csv"
	ExportCancellationsCSV  ExportKind = "cancellations-csv"
	ExportAppointmentsPDF   ExportKind = "appointments-pdf"
)

// ExportKinds lists every kind in menu order.
var ExportKinds = []ExportKind{
	ExportRegistrationCSV,
	ExportDemographicsCSV,
	ExportDoctorLoadCSV,
	ExportSummaryCSV,
	ExportSpecializationCSV,
	ExportCancellationsCSV,
	ExportAppointmentsPDF,
}

type exportTarget struct {
	route    string
	fileName string
}

var exportTargets = map[ExportKind]exportTarget{
	ExportRegistrationCSV:   {"/api/reports/export/patients/registration.csv", "patient-registration.csv"},
	ExportDemographicsCSV:   {"/api/reports/export/patients/demographics.csv", "patient-demographics.csv"},
	ExportDoctorLoadCSV:     {"/api/reports/export/doctors/appointment-load.csv", "doctor-appointment-load.csv"},
	ExportSummaryCSV:        {"/api/reports/export/appointments/summary.csv", "appointment-summary-%s.csv"},
	ExportSpecializationCSV: {"/api/reports/export/appointments/by-specialization.csv", "appointments-by-specialization.csv"},
	ExportCancellationsCSV:  {"/api/reports/export/appointments/cancellations.csv", "appointment-cancellations.csv"},
	ExportAppointmentsPDF:   {"/api/reports/export/appointments.pdf", "appointments-report.pdf"},
}

func ParseExportKind(s string) (ExportKind, error) {
	k := ExportKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := exportTargets[k]; !ok {
		return "", fmt.Errorf("unknown export %q", s)
	}
	return k, nil
}

// Route is the backend path for k.
func (k ExportKind) Route() string { return exportTargets[k].route }

// Query is the parameter set k takes from f: the date range for
// registrations and the period for the summary.
func (k ExportKind) Query(f Filters) url.Values {
	switch k {
	case ExportRegistrationCSV:
		return rangeQuery(f.From, f.To)
	case ExportSummaryCSV:
		return url.Values{"period": {string(periodOrDaily(f.Period))}}
	}
	return nil
}

// DefaultFileName is the name the backend would give the download.
func (k ExportKind) DefaultFileName(f Filters) string {
	name := exportTargets[k].fileName
	if k == ExportSummaryCSV {
		name = fmt.Sprintf(name, periodOrDaily(f.Period))
	}
	return name
}

func periodOrDaily(p Period) Period {
	if p == "" {
		return PeriodDaily
	}
	return p
}

// rangeQuery sends only the bounds that are set.
func rangeQuery(from, to string) url.Values {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	if len(q) == 0 {
		return nil
	}
	return q
}

// SaveExport downloads k into dir and returns the written path. The file name
// comes from the backend's Content-Disposition, falling back to
// DefaultFileName. The file appears under its final name only once complete.
func SaveExport(ctx context.Context, repo Repository, k ExportKind, f Filters, dir string) (string, error) {
	d, err := repo.Export(ctx, k, f)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", k, err)
	}
	defer d.Body.Close()

	name := d.FileName
	if name == "" {
		name = k.DefaultFileName(f)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, d.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	dst := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return dst, nil
}
