package report

import (
	"context"
	"net/url"

	"github.com/mediway/mediway/internal/platform/api"
)

type apiRepo struct {
	client *api.Client
}

func NewAPIRepo(client *api.Client) Repository {
	return &apiRepo{client: client}
}

func (r *apiRepo) Registration(ctx context.Context, from, to string) (*Registration, error) {
	var out Registration
	if err := r.client.Get(ctx, "/api/reports/patients/registration", "", rangeQuery(from, to), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) Demographics(ctx context.Context) (*Demographics, error) {
	var out Demographics
	if err := r.client.Get(ctx, "/api/reports/patients/demographics", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) DoctorLoad(ctx context.Context) (Mapping, error) {
	return r.mapping(ctx, "/api/reports/doctors/appointment-load")
}

func (r *apiRepo) Summary(ctx context.Context, period Period) (*Summary, error) {
	var out Summary
	q := url.Values{"period": {string(periodOrDaily(period))}}
	if err := r.client.Get(ctx, "/api/reports/appointments/summary", "", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) BySpecialization(ctx context.Context) (Mapping, error) {
	return r.mapping(ctx, "/api/reports/appointments/by-specialization")
}

func (r *apiRepo) Cancellations(ctx context.Context) (Mapping, error) {
	return r.mapping(ctx, "/api/reports/appointments/cancellations")
}

func (r *apiRepo) mapping(ctx context.Context, route string) (Mapping, error) {
	out := Mapping{}
	if err := r.client.Get(ctx, route, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *apiRepo) Export(ctx context.Context, kind ExportKind, f Filters) (*api.Download, error) {
	return r.client.Download(ctx, kind.Route(), "", kind.Query(f))
}

func (r *apiRepo) ExportURL(kind ExportKind, f Filters) string {
	return r.client.URL(kind.Route(), kind.Query(f))
}
