package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/mediway/mediway/internal/platform/api"
)

type mockRepo struct {
	doctors   []Doctor
	passwords map[int64]string
	nextID    int64
	listErr   error
}

func newMockRepo(docs ...Doctor) *mockRepo {
	m := &mockRepo{passwords: make(map[int64]string), nextID: 100}
	m.doctors = append(m.doctors, docs...)
	return m
}

func (m *mockRepo) List(context.Context) ([]Doctor, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]Doctor(nil), m.doctors...), nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (*Doctor, error) {
	for i := range m.doctors {
		if m.doctors[i].ID == id {
			d := m.doctors[i]
			return &d, nil
		}
	}
	return nil, &api.StatusError{StatusCode: 404}
}

func (m *mockRepo) Create(_ context.Context, f Form) (*Doctor, error) {
	m.nextID++
	d := Doctor{ID: m.nextID, Name: f.Name, Email: f.Email, Specialization: f.Specialization}
	m.doctors = append(m.doctors, d)
	return &d, nil
}

func (m *mockRepo) Update(_ context.Context, id int64, f Form) (*Doctor, error) {
	for i := range m.doctors {
		if m.doctors[i].ID == id {
			if f.Name != "" {
				m.doctors[i].Name = f.Name
			}
			d := m.doctors[i]
			return &d, nil
		}
	}
	return nil, &api.StatusError{StatusCode: 404}
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	for i := range m.doctors {
		if m.doctors[i].ID == id {
			m.doctors = append(m.doctors[:i], m.doctors[i+1:]...)
			return nil
		}
	}
	return &api.StatusError{StatusCode: 400, Body: "Doctor not found"}
}

func (m *mockRepo) Photo(_ context.Context, id int64) (*api.Download, error) {
	return &api.Download{Body: io.NopCloser(strings.NewReader("JPEG")), ContentType: "image/png"}, nil
}

func (m *mockRepo) PhotoURL(id int64) string {
	return fmt.Sprintf("http://backend/api/doctors/%d/photo", id)
}

func (m *mockRepo) SetPassword(_ context.Context, id int64, pw string) error {
	m.passwords[id] = pw
	return nil
}

func (m *mockRepo) Login(_ context.Context, c Credentials) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.Email == c.Email && m.passwords[d.ID] == c.Password {
			d := d
			return &d, nil
		}
	}
	return nil, &api.StatusError{StatusCode: 400, Body: "Invalid credentials"}
}

func (m *mockRepo) SearchBySpecialization(_ context.Context, spec string) ([]Doctor, error) {
	return Filter(m.doctors, spec), nil
}

type fakeSession struct{ id, name string }

func (f *fakeSession) SetDoctor(id, name string) error {
	f.id, f.name = id, name
	return nil
}

func sampleDoctors() []Doctor {
	return []Doctor{
		{ID: 7, Name: "Dr. Amara Perera", Email: "amara@mediway.lk", Specialization: "Cardiology"},
		{ID: 8, Name: "Dr. Nuwan Silva", Email: "Nuwan@MediWay.lk", Specialization: "Dermatology"},
		{ID: 9, Name: "Dr. Kasun Cardo", Email: "kasun@mediway.lk", Specialization: "Pediatrics"},
	}
}

func newTestService() (*Service, *mockRepo, *fakeSession) {
	repo := newMockRepo(sampleDoctors()...)
	sess := &fakeSession{}
	return NewService(repo, sess), repo, sess
}

func TestFilter(t *testing.T) {
	list := sampleDoctors()

	tests := []struct {
		q    string
		want []int64
	}{
		{"", []int64{7, 8, 9}},
		{"card", []int64{7, 9}},
		{"DERMA", []int64{8}},
		{"  silva ", []int64{8}},
		{"neuro", nil},
	}
	for _, tt := range tests {
		got := Filter(list, tt.q)
		var ids []int64
		for _, d := range got {
			ids = append(ids, d.ID)
		}
		if fmt.Sprint(ids) != fmt.Sprint(tt.want) {
			t.Errorf("Filter(%q) = %v, want %v", tt.q, ids, tt.want)
		}
	}
}

func TestSpecializations(t *testing.T) {
	list := append(sampleDoctors(), Doctor{ID: 10, Specialization: "Cardiology"})
	got := Specializations(list)
	if fmt.Sprint(got) != "[Cardiology Dermatology Pediatrics]" {
		t.Errorf("unexpected specializations %v", got)
	}
}

func TestService_List_ErrorYieldsEmpty(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.listErr = &api.TransportError{Err: errors.New("refused")}

	list, err := svc.List(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty non-nil list, got %v", list)
	}
}

func TestService_Create_RequiresFields(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Create(context.Background(), Form{Name: "Dr. X"}); !errors.Is(err, ErrRequired) {
		t.Fatalf("expected ErrRequired, got %v", err)
	}
	d, err := svc.Create(context.Background(), Form{Name: "Dr. X", Email: "x@y.z", Specialization: "ENT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID == 0 {
		t.Error("expected assigned id")
	}
}

func TestService_Delete_ReloadsList(t *testing.T) {
	svc, _, _ := newTestService()
	list, err := svc.Delete(context.Background(), 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 doctors after delete, got %d", len(list))
	}
}

func TestService_Signup_CaseInsensitiveEmail(t *testing.T) {
	svc, repo, _ := newTestService()
	d, err := svc.Signup(context.Background(), "nuwan@mediway.LK", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID != 8 {
		t.Errorf("expected doctor 8, got %d", d.ID)
	}
	if repo.passwords[8] != "s3cret" {
		t.Error("expected password to be set")
	}
}

func TestService_Signup_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Signup(context.Background(), "ghost@mediway.lk", "pw"); !errors.Is(err, ErrEmailNotFound) {
		t.Fatalf("expected ErrEmailNotFound, got %v", err)
	}
}

func TestService_Login_StoresSession(t *testing.T) {
	svc, repo, sess := newTestService()
	repo.passwords[7] = "pw"

	d, err := svc.Login(context.Background(), "amara@mediway.lk", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.id != "7" || sess.name != d.Name {
		t.Errorf("expected session 7/%s, got %s/%s", d.Name, sess.id, sess.name)
	}
}

func TestService_Login_DefaultName(t *testing.T) {
	repo := newMockRepo(Doctor{ID: 3, Email: "anon@mediway.lk"})
	repo.passwords[3] = "pw"
	sess := &fakeSession{}
	svc := NewService(repo, sess)

	if _, err := svc.Login(context.Background(), "anon@mediway.lk", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.name != "Doctor" {
		t.Errorf("expected default name Doctor, got %q", sess.name)
	}
}

func TestService_Login_Failure(t *testing.T) {
	svc, _, sess := newTestService()
	_, err := svc.Login(context.Background(), "amara@mediway.lk", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if api.Message(err, "Login failed") != "Invalid credentials" {
		t.Errorf("unexpected message %q", api.Message(err, "Login failed"))
	}
	if sess.id != "" {
		t.Error("expected session untouched")
	}
}
