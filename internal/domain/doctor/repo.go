package doctor

import (
	"context"

	"github.com/mediway/mediway/internal/platform/api"
)

// Repository is the doctor half of the backend API.
type Repository interface {
	List(ctx context.Context) ([]Doctor, error)
	Get(ctx context.Context, id int64) (*Doctor, error)
	Create(ctx context.Context, f Form) (*Doctor, error)
	Update(ctx context.Context, id int64, f Form) (*Doctor, error)
	Delete(ctx context.Context, id int64) error
	Photo(ctx context.Context, id int64) (*api.Download, error)
	PhotoURL(id int64) string
	SetPassword(ctx context.Context, id int64, password string) error
	Login(ctx context.Context, c Credentials) (*Doctor, error)
	SearchBySpecialization(ctx context.Context, specialization string) ([]Doctor, error)
}
