package report

import (
	"context"

	"github.com/mediway/mediway/internal/platform/api"
)

// Repository is the reporting half of the backend API.
type Repository interface {
	Registration(ctx context.Context, from, to string) (*Registration, error)
	Demographics(ctx context.Context) (*Demographics, error)
	DoctorLoad(ctx context.Context) (Mapping, error)
	Summary(ctx context.Context, period Period) (*Summary, error)
	BySpecialization(ctx context.Context) (Mapping, error)
	Cancellations(ctx context.Context) (Mapping, error)
	Export(ctx context.Context, kind ExportKind, f Filters) (*api.Download, error)
	ExportURL(kind ExportKind, f Filters) string
}
