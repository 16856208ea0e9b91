package doctor

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

func doctorPath(id int64) string {
	return "/api/doctors/" + strconv.FormatInt(id, 10)
}

func (r *apiRepo) List(ctx context.Context) ([]Doctor, error) {
	var out []Doctor
	if err := r.client.Get(ctx, "/api/doctors", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *apiRepo) Get(ctx context.Context, id int64) (*Doctor, error) {
	var out Doctor
	if err := r.client.Get(ctx, "/api/doctors/{id}", doctorPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) Create(ctx context.Context, f Form) (*Doctor, error) {
	var out Doctor
	fields := []api.FormField{
		{Name: "name", Value: f.Name},
		{Name: "email", Value: f.Email},
		{Name: "specialization", Value: f.Specialization},
	}
	if err := r.client.Multipart(ctx, http.MethodPost, "/api/doctors", "", fields, photoPart(f.Photo), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update sends only the non-empty fields.
func (r *apiRepo) Update(ctx context.Context, id int64, f Form) (*Doctor, error) {
	var fields []api.FormField
	if f.Name != "" {
		fields = append(fields, api.FormField{Name: "name", Value: f.Name})
	}
	if f.Email != "" {
		fields = append(fields, api.FormField{Name: "email", Value: f.Email})
	}
	if f.Specialization != "" {
		fields = append(fields, api.FormField{Name: "specialization", Value: f.Specialization})
	}
	var out Doctor
	if err := r.client.Multipart(ctx, http.MethodPut, "/api/doctors/{id}", doctorPath(id), fields, photoPart(f.Photo), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) Delete(ctx context.Context, id int64) error {
	return r.client.JSON(ctx, api.Request{Method: http.MethodDelete, Route: "/api/doctors/{id}", Path: doctorPath(id)}, nil)
}

func (r *apiRepo) Photo(ctx context.Context, id int64) (*api.Download, error) {
	return r.client.Download(ctx, "/api/doctors/{id}/photo", doctorPath(id)+"/photo", nil)
}

func (r *apiRepo) PhotoURL(id int64) string {
	return r.client.URL(doctorPath(id)+"/photo", nil)
}

func (r *apiRepo) SetPassword(ctx context.Context, id int64, password string) error {
	return r.client.JSON(ctx, api.Request{
		Method: http.MethodPost,
		Route:  "/api/doctors/{id}/password",
		Path:   doctorPath(id) + "/password",
		Query:  url.Values{"password": {password}},
	}, nil)
}

func (r *apiRepo) Login(ctx context.Context, c Credentials) (*Doctor, error) {
	var out Doctor
	if err := r.client.PostJSON(ctx, "/api/doctors/login", "", c, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) SearchBySpecialization(ctx context.Context, specialization string) ([]Doctor, error) {
	var out []Doctor
	q := url.Values{"specialization": {specialization}}
	if err := r.client.Get(ctx, "/api/doctors/search", "", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func photoPart(p *Photo) *api.FormFile {
	if p == nil {
		return nil
	}
	return &api.FormFile{Field: "photo", FileName: p.FileName, ContentType: p.ContentType, Content: p.Content}
}
