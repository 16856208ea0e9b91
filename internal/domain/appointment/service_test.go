package appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mediway/mediway/internal/platform/api"
)

type mockRepo struct {
	appts      map[int64]*Appointment
	slots      map[SlotKey][]string
	slotCalls  []SlotKey
	rescheds   int
	failAction bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{appts: make(map[int64]*Appointment), slots: make(map[SlotKey][]string)}
}

func (m *mockRepo) Slots(_ context.Context, key SlotKey) ([]string, error) {
	m.slotCalls = append(m.slotCalls, key)
	return m.slots[key], nil
}

func (m *mockRepo) Book(_ context.Context, req BookRequest) (*Appointment, error) {
	for _, a := range m.appts {
		if a.Doctor.ID == req.DoctorID && a.Date == req.Date && a.Time == req.Time {
			return nil, &api.StatusError{StatusCode: 400, Body: "Slot already booked"}
		}
	}
	id := int64(len(m.appts) + 1)
	a := &Appointment{
		ID:      id,
		Patient: &PatientRef{HealthID: req.HealthID},
		Doctor:  &DoctorRef{ID: req.DoctorID},
		Date:    req.Date,
		Time:    req.Time,
		Status:  StatusPending,
	}
	m.appts[id] = a
	return a, nil
}

func (m *mockRepo) ListMine(_ context.Context, healthID string) ([]Appointment, error) {
	var out []Appointment
	for _, a := range m.appts {
		if a.Patient.HealthID == healthID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockRepo) Reschedule(_ context.Context, id int64, date, t string) (*Appointment, error) {
	m.rescheds++
	a, ok := m.appts[id]
	if !ok {
		return nil, &api.StatusError{StatusCode: 400, Body: "Appointment not found"}
	}
	if date != "" {
		a.Date = date
	}
	if t != "" {
		a.Time = t
	}
	return a, nil
}

func (m *mockRepo) setStatus(id int64, s Status) (*Appointment, error) {
	if m.failAction {
		return nil, &api.StatusError{StatusCode: 500, Body: "<html>oops</html>"}
	}
	a, ok := m.appts[id]
	if !ok {
		return nil, &api.StatusError{StatusCode: 400, Body: "Appointment not found"}
	}
	a.Status = s
	return a, nil
}

func (m *mockRepo) Cancel(_ context.Context, id int64) (*Appointment, error) {
	return m.setStatus(id, StatusCancelled)
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID int64) ([]Appointment, error) {
	var out []Appointment
	for _, a := range m.appts {
		if a.Doctor.ID == doctorID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockRepo) AdminList(_ context.Context, status Status) ([]Appointment, error) {
	var out []Appointment
	for id := int64(1); id <= int64(len(m.appts)); id++ {
		a, ok := m.appts[id]
		if !ok {
			continue
		}
		if status == "" || a.Status == status {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockRepo) Confirm(_ context.Context, id int64) (*Appointment, error) {
	return m.setStatus(id, StatusConfirmed)
}

func (m *mockRepo) Reject(_ context.Context, id int64) (*Appointment, error) {
	return m.setStatus(id, StatusRejected)
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo), repo
}

func TestService_Slots_NeedsDoctorAndDate(t *testing.T) {
	svc, repo := newTestService()
	slots, err := svc.Slots(context.Background(), SlotKey{DoctorID: 7})
	if err != nil || slots != nil {
		t.Fatalf("expected no slots and no error, got %v, %v", slots, err)
	}
	if len(repo.slotCalls) != 0 {
		t.Errorf("expected no backend call, got %d", len(repo.slotCalls))
	}
}

func TestService_Book(t *testing.T) {
	svc, _ := newTestService()
	req := BookRequest{HealthID: "MW-1", DoctorID: 7, Date: "2025-06-01", Time: "09:00"}

	a, err := svc.Book(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusPending {
		t.Errorf("expected PENDING, got %s", a.Status)
	}

	_, err = svc.Book(context.Background(), req)
	if !errors.Is(err, ErrBookingFailed) {
		t.Fatalf("expected ErrBookingFailed, got %v", err)
	}
	if api.Message(err, "") != "Slot already booked" {
		t.Errorf("expected backend text to survive wrapping, got %q", api.Message(err, ""))
	}
}

func TestService_Book_Incomplete(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Book(context.Background(), BookRequest{HealthID: "MW-1"}); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestService_Reschedule_NoChangeSendsNothing(t *testing.T) {
	svc, repo := newTestService()
	_, err := svc.Reschedule(context.Background(), 1, "", "")
	if !errors.Is(err, ErrNoChange) {
		t.Fatalf("expected ErrNoChange, got %v", err)
	}
	if repo.rescheds != 0 {
		t.Errorf("expected no backend call, got %d", repo.rescheds)
	}
}

func TestService_Reschedule(t *testing.T) {
	svc, _ := newTestService()
	a, _ := svc.Book(context.Background(), BookRequest{HealthID: "MW-1", DoctorID: 7, Date: "2025-06-01", Time: "09:00"})

	moved, err := svc.Reschedule(context.Background(), a.ID, "", "10:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.Date != "2025-06-01" || moved.Time != "10:30" {
		t.Errorf("unexpected result %s %s", moved.Date, moved.Time)
	}
}

func TestService_Mine_EmptyHealthID(t *testing.T) {
	svc, _ := newTestService()
	list, err := svc.Mine(context.Background(), "")
	if err != nil || list != nil {
		t.Fatalf("expected empty, got %v, %v", list, err)
	}
}

func TestService_InvalidIDs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	checks := []error{}
	_, err := svc.Cancel(ctx, 0)
	checks = append(checks, err)
	_, err = svc.Confirm(ctx, -1)
	checks = append(checks, err)
	_, err = svc.Reject(ctx, 0)
	checks = append(checks, err)
	_, err = svc.ByDoctor(ctx, 0)
	checks = append(checks, err)
	for i, err := range checks {
		if !errors.Is(err, ErrInvalidID) {
			t.Errorf("check %d: expected ErrInvalidID, got %v", i, err)
		}
	}
}

func TestBoard_ActionsReload(t *testing.T) {
	svc, repo := newTestService()
	for i := 0; i < 3; i++ {
		_, _ = svc.Book(context.Background(), BookRequest{HealthID: "MW-1", DoctorID: 7, Date: "2025-06-01", Time: fmt.Sprintf("0%d:00", 9-i)})
	}
	b := NewBoard(svc)
	b.SetFilter(StatusPending)
	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.List()) != 3 {
		t.Fatalf("expected 3 pending, got %d", len(b.List()))
	}

	if err := b.Confirm(context.Background(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.List()) != 2 {
		t.Errorf("expected 2 pending after confirm, got %d", len(b.List()))
	}
	if repo.appts[2].Status != StatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", repo.appts[2].Status)
	}

	repo.failAction = true
	if err := b.Reject(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
	if b.Status() != "Reject failed" {
		t.Errorf("expected fallback message for html body, got %q", b.Status())
	}
	if len(b.List()) != 2 {
		t.Errorf("expected list reloaded and unchanged, got %d", len(b.List()))
	}
}
