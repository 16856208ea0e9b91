package report

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mediway/mediway/internal/domain/appointment"
)

// Period is the summary bucket size.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// ParsePeriod accepts any case; empty means daily.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case "", PeriodDaily:
		return PeriodDaily, nil
	case PeriodWeekly:
		return PeriodWeekly, nil
	case PeriodMonthly:
		return PeriodMonthly, nil
	}
	return "", fmt.Errorf("period must be daily, weekly or monthly, got %q", s)
}

// StatusFilter says which status columns are charted and exported.
type StatusFilter map[appointment.Status]bool

func AllStatuses() StatusFilter {
	f := make(StatusFilter, len(appointment.Statuses))
	for _, s := range appointment.Statuses {
		f[s] = true
	}
	return f
}

// ParseStatusFilter reads a comma separated status list. Empty means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	if strings.TrimSpace(s) == "" {
		return AllStatuses(), nil
	}
	f := StatusFilter{}
	for _, part := range strings.Split(s, ",") {
		st, err := appointment.ParseStatus(part)
		if err != nil {
			return nil, err
		}
		if st != "" {
			f[st] = true
		}
	}
	return f, nil
}

// Toggle returns a copy of f with s flipped.
func (f StatusFilter) Toggle(s appointment.Status) StatusFilter {
	out := make(StatusFilter, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out[s] = !out[s]
	return out
}

// Enabled lists the shown statuses in display order.
func (f StatusFilter) Enabled() []appointment.Status {
	var out []appointment.Status
	for _, s := range appointment.Statuses {
		if f[s] {
			out = append(out, s)
		}
	}
	return out
}

// Filters are the dashboard controls. From, To and Period change what is
// fetched; the rest only change how fetched data is shown.
type Filters struct {
	From        string       `json:"from,omitempty"`
	To          string       `json:"to,omitempty"`
	Period      Period       `json:"period"`
	Statuses    StatusFilter `json:"statuses"`
	DoctorQuery string       `json:"doctorQuery,omitempty"`
	SpecQuery   string       `json:"specQuery,omitempty"`
}

func DefaultFilters() Filters {
	return Filters{Period: PeriodDaily, Statuses: AllStatuses()}
}

// ParseFilters reads filters from query parameters: from, to, period,
// status, doctor and spec.
func ParseFilters(q url.Values) (Filters, error) {
	f := DefaultFilters()
	for _, k := range []string{"from", "to"} {
		v := strings.TrimSpace(q.Get(k))
		if v == "" {
			continue
		}
		if _, err := time.Parse(appointment.DateLayout, v); err != nil {
			return f, fmt.Errorf("%s must be YYYY-MM-DD", k)
		}
		if k == "from" {
			f.From = v
		} else {
			f.To = v
		}
	}
	p, err := ParsePeriod(q.Get("period"))
	if err != nil {
		return f, err
	}
	f.Period = p
	if f.Statuses, err = ParseStatusFilter(q.Get("status")); err != nil {
		return f, err
	}
	f.DoctorQuery = strings.TrimSpace(q.Get("doctor"))
	f.SpecQuery = strings.TrimSpace(q.Get("spec"))
	return f, nil
}
