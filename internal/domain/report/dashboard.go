package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mediway/mediway/internal/platform/api"
	"github.com/mediway/mediway/internal/platform/query"
)

type rangeKey struct {
	From string
	To   string
}

// static keys the queries that take no parameters.
type static struct{}

// Section is one dashboard panel: its own loading flag, error and data.
type Section[T any] struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Data    T      `json:"data"`
}

func section[T, R any](st query.State[T], derive func(T) R) Section[R] {
	var zero T
	s := Section[R]{Loading: st.Loading()}
	switch st.Status {
	case query.Resolved:
		s.Data = derive(st.Data)
	case query.Errored:
		s.Error = api.Message(st.Err, "Network error")
		s.Data = derive(zero)
	default:
		s.Data = derive(zero)
	}
	return s
}

// Snapshot is everything the dashboard shows at one instant.
type Snapshot struct {
	Filters        Filters               `json:"filters"`
	Registration   Section[[]Point]      `json:"registration"`
	AgeBuckets     Section[[]Point]      `json:"ageBuckets"`
	Gender         Section[[]Point]      `json:"gender"`
	DoctorLoad     Section[[]Point]      `json:"doctorLoad"`
	Summary        Section[[]SummaryRow] `json:"summary"`
	Specialization Section[[]Point]      `json:"specialization"`
	Cancellations  Section[[]Point]      `json:"cancellations"`
	KPIs           KPIs                  `json:"kpis"`
}

// Dashboard runs the six report queries. Each is keyed by its own
// parameters, so changing the date range only refetches registrations and
// changing the period only refetches the summary.
type Dashboard struct {
	registration  *query.Query[rangeKey, *Registration]
	demographics  *query.Query[static, *Demographics]
	doctorLoad    *query.Query[static, Mapping]
	summary       *query.Query[Period, *Summary]
	specialities  *query.Query[static, Mapping]
	cancellations *query.Query[static, Mapping]

	mu      sync.Mutex
	filters Filters
}

func NewDashboard(repo Repository) *Dashboard {
	return &Dashboard{
		registration: query.New(func(ctx context.Context, k rangeKey) (*Registration, error) {
			return repo.Registration(ctx, k.From, k.To)
		}),
		demographics: query.New(func(ctx context.Context, _ static) (*Demographics, error) {
			return repo.Demographics(ctx)
		}),
		doctorLoad: query.New(func(ctx context.Context, _ static) (Mapping, error) {
			return repo.DoctorLoad(ctx)
		}),
		summary: query.New(repo.Summary),
		specialities: query.New(func(ctx context.Context, _ static) (Mapping, error) {
			return repo.BySpecialization(ctx)
		}),
		cancellations: query.New(func(ctx context.Context, _ static) (Mapping, error) {
			return repo.Cancellations(ctx)
		}),
		filters: DefaultFilters(),
	}
}

func (d *Dashboard) Filters() Filters {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filters
}

// Load applies f and starts every query whose key changed or whose last
// fetch failed. The others keep what they have.
func (d *Dashboard) Load(ctx context.Context, f Filters) {
	if f.Period == "" {
		f.Period = PeriodDaily
	}
	if f.Statuses == nil {
		f.Statuses = AllStatuses()
	}
	d.mu.Lock()
	d.filters = f
	d.mu.Unlock()

	d.registration.Set(ctx, rangeKey{From: f.From, To: f.To})
	d.demographics.Set(ctx, static{})
	d.doctorLoad.Set(ctx, static{})
	d.summary.Set(ctx, f.Period)
	d.specialities.Set(ctx, static{})
	d.cancellations.Set(ctx, static{})
}

// Refresh refetches every query under its current key.
func (d *Dashboard) Refresh(ctx context.Context) {
	d.registration.Refetch(ctx)
	d.demographics.Refetch(ctx)
	d.doctorLoad.Refetch(ctx)
	d.summary.Refetch(ctx)
	d.specialities.Refetch(ctx)
	d.cancellations.Refetch(ctx)
}

// Wait blocks until all six queries have settled. It only fails when ctx
// does; query failures show up in the snapshot and in Err.
func (d *Dashboard) Wait(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { _, err := d.registration.Wait(gctx); return err })
	g.Go(func() error { _, err := d.demographics.Wait(gctx); return err })
	g.Go(func() error { _, err := d.doctorLoad.Wait(gctx); return err })
	g.Go(func() error { _, err := d.summary.Wait(gctx); return err })
	g.Go(func() error { _, err := d.specialities.Wait(gctx); return err })
	g.Go(func() error { _, err := d.cancellations.Wait(gctx); return err })
	return g.Wait()
}

// Err joins the errors of every failed query, or returns nil.
func (d *Dashboard) Err() error {
	var errs []error
	add := func(name string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	add("registration", d.registration.State().Err)
	add("demographics", d.demographics.State().Err)
	add("doctor load", d.doctorLoad.State().Err)
	add("summary", d.summary.State().Err)
	add("specialization", d.specialities.State().Err)
	add("cancellations", d.cancellations.State().Err)
	return errors.Join(errs...)
}

// Snapshot derives every panel and the KPIs from the current query states.
func (d *Dashboard) Snapshot(now time.Time) Snapshot {
	f := d.Filters()
	demo := d.demographics.State()
	canc := d.cancellations.State()

	s := Snapshot{
		Filters:      f,
		Registration: section(d.registration.State(), RegistrationSeries),
		AgeBuckets:   section(demo, AgeBuckets),
		Gender:       section(demo, GenderBuckets),
		DoctorLoad: section(d.doctorLoad.State(), func(m Mapping) []Point {
			return DoctorLoad(m, f.DoctorQuery)
		}),
		Summary: section(d.summary.State(), SummaryRows),
		Specialization: section(d.specialities.State(), func(m Mapping) []Point {
			return SpecializationLoad(m, f.SpecQuery)
		}),
		Cancellations: section(canc, CancellationSeries),
	}

	var cancMap Mapping
	if canc.Status == query.Resolved {
		cancMap = canc.Data
	}
	s.KPIs = ComputeKPIs(s.Registration.Data, s.Summary.Data, cancMap, s.Specialization.Data, now)
	return s
}
