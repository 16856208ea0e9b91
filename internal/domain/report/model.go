package report

import (
	"github.com/mediway/mediway/internal/domain/appointment"
)

// Registration is GET /api/reports/patients/registration.
type Registration struct {
	Range  []string `json:"range"`
	Series Mapping  `json:"series"`
}

// Demographics is GET /api/reports/patients/demographics.
type Demographics struct {
	Gender     Mapping `json:"gender"`
	AgeBuckets Mapping `json:"ageBuckets"`
}

// Summary is GET /api/reports/appointments/summary.
type Summary struct {
	Period  string  `json:"period"`
	Buckets Buckets `json:"buckets"`
}

// Point is one labelled count ready for a chart or table.
type Point struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// SummaryRow is one summary bucket with a count per status.
type SummaryRow struct {
	Bucket    string `json:"bucket"`
	Pending   int64  `json:"PENDING"`
	Confirmed int64  `json:"CONFIRMED"`
	Rejected  int64  `json:"REJECTED"`
	Cancelled int64  `json:"CANCELLED"`
}

func (r SummaryRow) Count(s appointment.Status) int64 {
	switch s {
	case appointment.StatusPending:
		return r.Pending
	case appointment.StatusConfirmed:
		return r.Confirmed
	case appointment.StatusRejected:
		return r.Rejected
	case appointment.StatusCancelled:
		return r.Cancelled
	}
	return 0
}

func (r SummaryRow) Total() int64 {
	return r.Pending + r.Confirmed + r.Rejected + r.Cancelled
}

// KPIs are the four headline numbers above the charts.
type KPIs struct {
	TotalRegistrations int64  `json:"totalRegistrations"`
	TotalAppointments  int64  `json:"totalAppointments"`
	Cancellations30d   int64  `json:"cancellations30d"`
	TopSpecialization  string `json:"topSpecialization"`
}
