package appointment

import "context"

// Repository is the appointment half of the backend API.
type Repository interface {
	Slots(ctx context.Context, key SlotKey) ([]string, error)
	Book(ctx context.Context, req BookRequest) (*Appointment, error)
	ListMine(ctx context.Context, healthID string) ([]Appointment, error)
	Reschedule(ctx context.Context, id int64, date, time string) (*Appointment, error)
	Cancel(ctx context.Context, id int64) (*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]Appointment, error)
	AdminList(ctx context.Context, status Status) ([]Appointment, error)
	Confirm(ctx context.Context, id int64) (*Appointment, error)
	Reject(ctx context.Context, id int64) (*Appointment, error)
}

// BookRequest carries every booking parameter; all of them go in the query
// string.
type BookRequest struct {
	HealthID string
	DoctorID int64
	Date     string
	Time     string
}
