package appointment

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mediway/mediway/internal/platform/api"
)

type apiRepo struct {
	client *api.Client
}

func NewAPIRepo(client *api.Client) Repository {
	return &apiRepo{client: client}
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func (r *apiRepo) Slots(ctx context.Context, key SlotKey) ([]string, error) {
	var out []string
	q := url.Values{"doctorId": {itoa(key.DoctorID)}, "date": {key.Date}}
	if err := r.client.Get(ctx, "/api/appointments/slots", "", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *apiRepo) Book(ctx context.Context, b BookRequest) (*Appointment, error) {
	var out Appointment
	err := r.client.JSON(ctx, api.Request{
		Method: http.MethodPost,
		Route:  "/api/appointments/book",
		Query: url.Values{
			"healthId": {b.HealthID},
			"doctorId": {itoa(b.DoctorID)},
			"date":     {b.Date},
			"time":     {b.Time},
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) ListMine(ctx context.Context, healthID string) ([]Appointment, error) {
	var out []Appointment
	if err := r.client.Get(ctx, "/api/appointments/mine", "", url.Values{"healthId": {healthID}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *apiRepo) Reschedule(ctx context.Context, id int64, date, t string) (*Appointment, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	if t != "" {
		q.Set("time", t)
	}
	return r.mutate(ctx, http.MethodPut, "/api/appointments/{id}", "/api/appointments/"+itoa(id), q)
}

func (r *apiRepo) Cancel(ctx context.Context, id int64) (*Appointment, error) {
	return r.mutate(ctx, http.MethodDelete, "/api/appointments/{id}", "/api/appointments/"+itoa(id), nil)
}

func (r *apiRepo) ListByDoctor(ctx context.Context, doctorID int64) ([]Appointment, error) {
	var out []Appointment
	p := "/api/doctors/" + itoa(doctorID) + "/appointments"
	if err := r.client.Get(ctx, "/api/doctors/{id}/appointments", p, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *apiRepo) AdminList(ctx context.Context, status Status) ([]Appointment, error) {
	var q url.Values
	if status != "" {
		q = url.Values{"status": {string(status)}}
	}
	var out []Appointment
	if err := r.client.Get(ctx, "/api/admin/appointments", "", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *apiRepo) Confirm(ctx context.Context, id int64) (*Appointment, error) {
	return r.mutate(ctx, http.MethodPost, "/api/admin/appointments/{id}/confirm", "/api/admin/appointments/"+itoa(id)+"/confirm", nil)
}

func (r *apiRepo) Reject(ctx context.Context, id int64) (*Appointment, error) {
	return r.mutate(ctx, http.MethodPost, "/api/admin/appointments/{id}/reject", "/api/admin/appointments/"+itoa(id)+"/reject", nil)
}

func (r *apiRepo) mutate(ctx context.Context, method, route, p string, q url.Values) (*Appointment, error) {
	var out Appointment
	if err := r.client.JSON(ctx, api.Request{Method: method, Route: route, Path: p, Query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
