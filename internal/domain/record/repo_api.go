package record

import (
	"context"

	"github.com/mediway/mediway/internal/platform/api"
)

type apiRepo struct {
	client *api.Client
}

func NewAPIRepo(client *api.Client) Repository {
	return &apiRepo{client: client}
}

func (r *apiRepo) Create(ctx context.Context, rec NewRecord) (*Created, error) {
	var out Created
	if err := r.client.PostJSON(ctx, "/api/records", "", rec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *apiRepo) ListByPatient(ctx context.Context, healthID string) ([]MedicalRecord, error) {
	var out []MedicalRecord
	p := "/api/patients/" + api.PathEscape(healthID) + "/records"
	if err := r.client.Get(ctx, "/api/patients/{healthId}/records", p, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
