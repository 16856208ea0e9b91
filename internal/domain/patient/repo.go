package patient

import (
	"context"

	"github.com/mediway/mediway/internal/platform/api"
)

// Repository is the patient half of the backend API.
type Repository interface {
	Register(ctx context.Context, r *Registration) (*Registered, error)
	Login(ctx context.Context, c Credentials) (*LoginResult, error)
	GetByHealthID(ctx context.Context, healthID string) (*Patient, error)
	QR(ctx context.Context, healthID string, download bool) (*api.Download, error)
	QRURL(healthID string, download bool) string
}
