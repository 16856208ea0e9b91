package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mediway/mediway/internal/domain/appointment"
)

// ChartKind names one of the dashboard charts.
type ChartKind string

const (
	ChartRegistrations  ChartKind = "registrations"
	ChartAgeBuckets     ChartKind = "age-demographics"
	ChartDoctorLoad     ChartKind = "doctor-load"
	ChartSummary        ChartKind = "appointment-summary"
	ChartSpecialization ChartKind = "by-specialization"
)

var ChartKinds = []ChartKind{
	ChartRegistrations,
	ChartAgeBuckets,
	ChartDoctorLoad,
	ChartSummary,
	ChartSpecialization,
}

func ParseChartKind(s string) (ChartKind, error) {
	k := ChartKind(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range ChartKinds {
		if c == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart %q", s)
}

// summaryColors is the report palette for the stacked summary bars. It
// differs from the appointment badge colors.
var summaryColors = map[appointment.Status]string{
	appointment.StatusPending:   "#94a3b8",
	appointment.StatusConfirmed: "#22c55e",
	appointment.StatusRejected:  "#ef4444",
	appointment.StatusCancelled: "#f59e0b",
}

func summaryColor(s appointment.Status) string {
	if c, ok := summaryColors[s]; ok {
		return c
	}
	return "#6b7280"
}

// FileName is the name SaveCharts writes k under.
func (k ChartKind) FileName() string { return string(k) + ".html" }

func chartOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "960px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func labels(pts []Point) []string {
	out := make([]string, len(pts))
	for i, p := range pts {
		out[i] = p.Label
	}
	return out
}

func barData(pts []Point) []opts.BarData {
	out := make([]opts.BarData, len(pts))
	for i, p := range pts {
		out[i] = opts.BarData{Value: p.Count}
	}
	return out
}

func rangeSubtitle(f Filters) string {
	if f.From == "" && f.To == "" {
		return "All time"
	}
	from, to := f.From, f.To
	if from == "" {
		from = "…"
	}
	if to == "" {
		to = "…"
	}
	return fmt.Sprintf("Filtered %s to %s", from, to)
}

func statusSubtitle(f Filters) string {
	enabled := f.Statuses.Enabled()
	if len(enabled) == 0 {
		return "Status filter: None"
	}
	names := make([]string, len(enabled))
	for i, s := range enabled {
		names[i] = string(s)
	}
	return "Status filter: " + strings.Join(names, ", ")
}

// RenderChart writes k as a standalone HTML page built from snap.
func RenderChart(w io.Writer, k ChartKind, snap Snapshot) error {
	switch k {
	case ChartRegistrations:
		pts := snap.Registration.Data
		line := charts.NewLine()
		line.SetGlobalOptions(chartOpts("Patient Registrations", rangeSubtitle(snap.Filters))...)
		data := make([]opts.LineData, len(pts))
		for i, p := range pts {
			data[i] = opts.LineData{Value: p.Count}
		}
		line.SetXAxis(labels(pts)).
			AddSeries("Registrations", data).
			SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return line.Render(w)

	case ChartAgeBuckets:
		pts := snap.AgeBuckets.Data
		pie := charts.NewPie()
		pie.SetGlobalOptions(chartOpts("Age Demographics", "")...)
		data := make([]opts.PieData, len(pts))
		for i, p := range pts {
			data[i] = opts.PieData{Name: p.Label, Value: p.Count}
		}
		pie.AddSeries("Patients", data)
		return pie.Render(w)

	case ChartDoctorLoad:
		return renderRanked(w, "Appointment Load by Doctor", "Appointments", snap.DoctorLoad.Data)

	case ChartSpecialization:
		return renderRanked(w, "Appointments by Specialization", "Appointments", snap.Specialization.Data)

	case ChartSummary:
		rows := snap.Summary.Data
		bar := charts.NewBar()
		bar.SetGlobalOptions(append(chartOpts("Appointment Summary", statusSubtitle(snap.Filters)),
			charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}))...)
		x := make([]string, len(rows))
		for i, r := range rows {
			x[i] = r.Bucket
		}
		bar.SetXAxis(x)
		for _, s := range snap.Filters.Statuses.Enabled() {
			data := make([]opts.BarData, len(rows))
			for i, r := range rows {
				data[i] = opts.BarData{Value: r.Count(s), ItemStyle: &opts.ItemStyle{Color: summaryColor(s)}}
			}
			bar.AddSeries(string(s), data, charts.WithBarChartOpts(opts.BarChart{Stack: "status"}))
		}
		return bar.Render(w)
	}
	return fmt.Errorf("unknown chart %q", k)
}

func renderRanked(w io.Writer, title, series string, pts []Point) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(chartOpts(title, "")...)
	bar.SetXAxis(labels(pts)).AddSeries(series, barData(pts))
	return bar.Render(w)
}

// SaveCharts renders every chart into dir and returns the written paths.
func SaveCharts(dir string, snap Snapshot) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	var paths []string
	for _, k := range ChartKinds {
		var buf bytes.Buffer
		if err := RenderChart(&buf, k, snap); err != nil {
			return paths, fmt.Errorf("render %s: %w", k, err)
		}
		p := filepath.Join(dir, k.FileName())
		if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

