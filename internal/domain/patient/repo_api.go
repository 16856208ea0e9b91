package patient

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

func (r *apiRepo) Register(ctx context.Context, reg *Registration) (*Registered, error) {
	var out Registered
	if err := r.client.PostJSON(ctx, "/api/patients/register", "", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) Login(ctx context.Context, c Credentials) (*LoginResult, error) {
	var out LoginResult
	if err := r.client.PostJSON(ctx, "/api/patients/login", "", c, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) GetByHealthID(ctx context.Context, healthID string) (*Patient, error) {
	var out Patient
	if err := r.client.Get(ctx, "/api/patients/{healthId}", "/api/patients/"+api.PathEscape(healthID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) QR(ctx context.Context, healthID string, download bool) (*api.Download, error) {
	return r.client.Download(ctx, "/api/patients/{healthId}/qr", qrPath(healthID), qrQuery(download))
}

func (r *apiRepo) QRURL(healthID string, download bool) string {
	return r.client.URL(qrPath(healthID), qrQuery(download))
}

func qrPath(healthID string) string {
	return "/api/patients/" + api.PathEscape(healthID) + "/qr"
}

func qrQuery(download bool) url.Values {
	if !download {
		return nil
	}
	return url.Values{"download": {"true"}}
}
