package report

import (
	"sort"
	"strings"
	"time"

	"github.com/mediway/mediway/internal/domain/appointment"
)

const cancellationWindow = 30 * 24 * time.Hour

func points(m Mapping) []Point {
	out := make([]Point, 0, len(m))
	for _, e := range m {
		out = append(out, Point{Label: e.Key, Count: e.Count})
	}
	return out
}

// RegistrationSeries is the registration series sorted by date ascending.
func RegistrationSeries(r *Registration) []Point {
	if r == nil {
		return []Point{}
	}
	out := points(r.Series)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// AgeBuckets keeps the backend's bucket order.
func AgeBuckets(d *Demographics) []Point {
	if d == nil {
		return []Point{}
	}
	return points(d.AgeBuckets)
}

func GenderBuckets(d *Demographics) []Point {
	if d == nil {
		return []Point{}
	}
	return points(d.Gender)
}

// DoctorLoad ranks doctors by appointment count, busiest first, then keeps
// those whose name contains q.
func DoctorLoad(m Mapping, q string) []Point {
	return ranked(m, q)
}

// SpecializationLoad ranks specializations the same way as DoctorLoad.
func SpecializationLoad(m Mapping, q string) []Point {
	return ranked(m, q)
}

// ranked sorts by count descending; equal counts keep the backend order.
func ranked(m Mapping, q string) []Point {
	all := points(m)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Count > all[j].Count })

	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return all
	}
	out := all[:0]
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Label), q) {
			out = append(out, p)
		}
	}
	return out
}

// SummaryRows flattens the summary buckets in backend order. Missing
// statuses are zero.
func SummaryRows(s *Summary) []SummaryRow {
	if s == nil {
		return []SummaryRow{}
	}
	out := make([]SummaryRow, 0, len(s.Buckets))
	for _, b := range s.Buckets {
		out = append(out, SummaryRow{
			Bucket:    b.Key,
			Pending:   b.Counts.Get(string(appointment.StatusPending)),
			Confirmed: b.Counts.Get(string(appointment.StatusConfirmed)),
			Rejected:  b.Counts.Get(string(appointment.StatusRejected)),
			Cancelled: b.Counts.Get(string(appointment.StatusCancelled)),
		})
	}
	return out
}

// CancellationSeries is the cancellations per day sorted by date.
func CancellationSeries(m Mapping) []Point {
	out := points(m)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// CancellationsSince sums the cancellations dated on or after now minus 30
// days. Keys that are not dates are skipped.
func CancellationsSince(m Mapping, now time.Time) int64 {
	cutoff := now.Add(-cancellationWindow)
	var n int64
	for _, e := range m {
		d, ok := parseDay(e.Key)
		if !ok {
			continue
		}
		if !d.Before(cutoff) {
			n += e.Count
		}
	}
	return n
}

func parseDay(s string) (time.Time, bool) {
	if d, err := time.Parse(appointment.DateLayout, s); err == nil {
		return d, true
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d, true
	}
	return time.Time{}, false
}

// ComputeKPIs derives the headline numbers. specs must already be filtered
// and ranked; its first entry is the top specialization.
func ComputeKPIs(reg []Point, rows []SummaryRow, cancellations Mapping, specs []Point, now time.Time) KPIs {
	k := KPIs{TopSpecialization: "-"}
	for _, p := range reg {
		k.TotalRegistrations += p.Count
	}
	for _, r := range rows {
		k.TotalAppointments += r.Total()
	}
	k.Cancellations30d = CancellationsSince(cancellations, now)
	if len(specs) > 0 && specs[0].Label != "" {
		k.TopSpecialization = specs[0].Label
	}
	return k
}
