package appointment

import (
	"context"
	"sync"

	"github.com/mediway/mediway/internal/platform/api"
)

// Board is the admin appointment table. Every action reloads the list from
// the backend afterwards, whether or not the action succeeded.
type Board struct {
	svc *Service

	mu     sync.Mutex
	filter Status
	list   []Appointment
	status string
}

func NewBoard(svc *Service) *Board {
	return &Board{svc: svc}
}

func (b *Board) SetFilter(s Status) {
	b.mu.Lock()
	b.filter = s
	b.mu.Unlock()
}

// Load replaces the list. On failure the previous list is kept.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	filter := b.filter
	b.mu.Unlock()

	list, err := b.svc.AdminList(ctx, filter)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.status = api.Message(err, "Failed to load appointments")
		return err
	}
	b.list = list
	b.status = ""
	return nil
}

func (b *Board) Confirm(ctx context.Context, id int64) error {
	return b.act(ctx, func() error {
		_, err := b.svc.Confirm(ctx, id)
		return err
	}, "Confirm failed")
}

func (b *Board) Reject(ctx context.Context, id int64) error {
	return b.act(ctx, func() error {
		_, err := b.svc.Reject(ctx, id)
		return err
	}, "Reject failed")
}

func (b *Board) act(ctx context.Context, fn func() error, fallback string) error {
	actErr := fn()
	loadErr := b.Load(ctx)
	if actErr != nil {
		b.mu.Lock()
		b.status = api.Message(actErr, fallback)
		b.mu.Unlock()
		return actErr
	}
	return loadErr
}

func (b *Board) List() []Appointment {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Appointment(nil), b.list...)
}

// Status is the inline message for the last failed action, or "".
func (b *Board) Status() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}
