package record

import "context"

type Repository interface {
	Create(ctx context.Context, r NewRecord) (*Created, error)
	ListByPatient(ctx context.Context, healthID string) ([]MedicalRecord, error)
}
