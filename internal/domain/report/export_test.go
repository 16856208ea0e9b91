package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportKind_QueryAndFileName(t *testing.T) {
	f := DefaultFilters()
	f.From = "2025-06-01"
	f.Period = PeriodMonthly

	assert.Equal(t, "from=2025-06-01", ExportRegistrationCSV.Query(f).Encode())
	assert.Equal(t, "period=monthly", ExportSummaryCSV.Query(f).Encode())
	assert.Nil(t, ExportDoctorLoadCSV.Query(f))
	assert.Equal(t, "appointment-summary-monthly.csv", ExportSummaryCSV.DefaultFileName(f))
	assert.Equal(t, "appointments-report.pdf", ExportAppointmentsPDF.DefaultFileName(f))
	assert.Nil(t, ExportRegistrationCSV.Query(DefaultFilters()))
}

func TestParseExportKind(t *testing.T) {
	for _, k := range ExportKinds {
		got, err := ParseExportKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseExportKind("everything")
	assert.Error(t, err)
}

func TestAPIRepo_ExportURL(t *testing.T) {
	_, client := newFakeReports(t)
	repo := NewAPIRepo(client)

	f := DefaultFilters()
	f.Period = PeriodWeekly
	assert.Equal(t, client.URL("/api/reports/export/appointments/summary.csv", nil)+"?period=weekly", repo.ExportURL(ExportSummaryCSV, f))
}

func TestSaveExport_UsesBackendFileName(t *testing.T) {
	_, client := newFakeReports(t)
	dir := t.TempDir()

	f := DefaultFilters()
	f.Period = PeriodWeekly
	p, err := SaveExport(context.Background(), NewAPIRepo(client), ExportSummaryCSV, f, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "appointment-summary-weekly.csv"), p)

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "2025-W01,2,5,0,0")
}

func TestSaveExport_FallsBackToDefaultName(t *testing.T) {
	_, client := newFakeReports(t)
	dir := t.TempDir()

	p, err := SaveExport(context.Background(), NewAPIRepo(client), ExportAppointmentsPDF, DefaultFilters(), dir)
	require.NoError(t, err)
	assert.Equal(t, "appointments-report.pdf", filepath.Base(p))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSaveExport_BackendError(t *testing.T) {
	_, client := newFakeReports(t)
	_, err := SaveExport(context.Background(), NewAPIRepo(client), ExportCancellationsCSV, DefaultFilters(), t.TempDir())
	assert.Error(t, err)
}
