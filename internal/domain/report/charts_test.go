package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediway/mediway/internal/domain/appointment"
)

func testSnapshot(t *testing.T, f Filters) Snapshot {
	t.Helper()
	_, client := newFakeReports(t)
	return loadDashboard(t, NewDashboard(NewAPIRepo(client)), f)
}

func TestRenderChart_Titles(t *testing.T) {
	snap := testSnapshot(t, DefaultFilters())
	titles := map[ChartKind]string{
		ChartRegistrations:  "Patient Registrations",
		ChartAgeBuckets:     "Age Demographics",
		ChartDoctorLoad:     "Appointment Load by Doctor",
		ChartSummary:        "Appointment Summary",
		ChartSpecialization: "Appointments by Specialization",
	}
	for kind, title := range titles {
		var buf bytes.Buffer
		require.NoError(t, RenderChart(&buf, kind, snap), kind)
		assert.Contains(t, buf.String(), title, kind)
		assert.Contains(t, buf.String(), "echarts", kind)
	}
}

func TestRenderChart_SummaryHonoursStatusFilter(t *testing.T) {
	f := DefaultFilters()
	f.Statuses = StatusFilter{appointment.StatusPending: true}
	snap := testSnapshot(t, f)

	var buf bytes.Buffer
	require.NoError(t, RenderChart(&buf, ChartSummary, snap))
	out := buf.String()
	assert.Contains(t, out, "PENDING")
	assert.NotContains(t, out, "CONFIRMED")
	assert.NotContains(t, out, "REJECTED")
}

func TestRenderChart_SummaryUsesReportPalette(t *testing.T) {
	snap := testSnapshot(t, DefaultFilters())
	var buf bytes.Buffer
	require.NoError(t, RenderChart(&buf, ChartSummary, snap))

	out := buf.String()
	for _, c := range []string{"#94a3b8", "#22c55e", "#ef4444", "#f59e0b"} {
		assert.Contains(t, out, c)
	}
	assert.NotContains(t, out, appointment.StatusConfirmed.Color())
}

func TestRenderChart_Unknown(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, RenderChart(&buf, ChartKind("pie-in-the-sky"), Snapshot{}))
	_, err := ParseChartKind("pie-in-the-sky")
	assert.Error(t, err)
}

func TestSaveCharts(t *testing.T) {
	snap := testSnapshot(t, DefaultFilters())
	dir := filepath.Join(t.TempDir(), "charts")

	paths, err := SaveCharts(dir, snap)
	require.NoError(t, err)
	require.Len(t, paths, len(ChartKinds))
	for i, k := range ChartKinds {
		assert.Equal(t, filepath.Join(dir, k.FileName()), paths[i])
		info, err := os.Stat(paths[i])
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
