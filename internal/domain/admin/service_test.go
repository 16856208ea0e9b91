package admin

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mediway/mediway/internal/platform/auth"
	"github.com/mediway/mediway/internal/platform/session"
)

func newTestGate(t *testing.T) *auth.Gate {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	g, err := auth.NewGate(auth.GateConfig{
		Username:     "admin",
		PasswordHash: string(h),
		Secret:       []byte("test-secret-key-for-unit-tests-only"),
	})
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	return g
}

func newTestService(t *testing.T) (*Service, *session.Holder) {
	t.Helper()
	holder := session.NewHolder(session.NewFileStore(filepath.Join(t.TempDir(), "session.json")), zerolog.Nop())
	return NewService(newTestGate(t), holder, zerolog.Nop()), holder
}

func TestService_Login(t *testing.T) {
	svc, holder := newTestService(t)

	resp, err := svc.Login("admin", "admin123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Redirect != RouteAppointments {
		t.Errorf("expected redirect %s, got %s", RouteAppointments, resp.Redirect)
	}
	if holder.AdminToken() != resp.Token || resp.Token == "" {
		t.Error("expected token stored in session")
	}
	if !svc.LoggedIn() {
		t.Error("expected LoggedIn after login")
	}
}

func TestService_LoginRejected(t *testing.T) {
	svc, holder := newTestService(t)

	if _, err := svc.Login("admin", "nope"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login("  ", ""); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
	if holder.AdminToken() != "" {
		t.Error("expected no token after failed login")
	}
	if svc.LoggedIn() {
		t.Error("expected LoggedIn false")
	}
}

func TestService_LogoutKeepsOtherIdentities(t *testing.T) {
	svc, holder := newTestService(t)
	if err := holder.SetPatient("MW-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login("admin", "admin123"); err != nil {
		t.Fatal(err)
	}

	route, err := svc.Logout()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route != session.RouteAdminLogin {
		t.Errorf("expected %s, got %s", session.RouteAdminLogin, route)
	}
	if svc.Token() != "" || svc.LoggedIn() {
		t.Error("expected admin token cleared")
	}
	if holder.HealthID() != "MW-1" {
		t.Error("expected patient identity untouched")
	}
}
