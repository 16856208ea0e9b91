package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret-key-for-unit-tests-only")

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	g, err := NewGate(GateConfig{Username: "admin", PasswordHash: string(h), Secret: testSecret})
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	return g
}

func TestNewGate_RequiresConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  GateConfig
	}{
		{"no username", GateConfig{PasswordHash: "x", Secret: testSecret}},
		{"no hash", GateConfig{Username: "admin", Secret: testSecret}},
		{"no secret", GateConfig{Username: "admin", PasswordHash: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGate(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGate_LoginAndVerify(t *testing.T) {
	g := newTestGate(t)

	tok, err := g.Login("admin", "admin123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := g.Verify(tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "admin" || claims.Role != RoleAdmin {
		t.Errorf("unexpected claims %+v", claims)
	}
	if d := claims.ExpiresAt.Sub(claims.IssuedAt.Time); d != DefaultTokenTTL {
		t.Errorf("expected %s ttl, got %s", DefaultTokenTTL, d)
	}
}

func TestGate_LoginRejectsBadCredentials(t *testing.T) {
	g := newTestGate(t)
	for _, c := range [][2]string{{"admin", "wrong"}, {"root", "admin123"}, {"", ""}} {
		if _, err := g.Login(c[0], c[1]); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("login(%q, %q): expected ErrInvalidCredentials, got %v", c[0], c[1], err)
		}
	}
}

func TestGate_VerifyExpired(t *testing.T) {
	g := newTestGate(t)
	tok, err := g.Login("admin", "admin123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g.now = func() time.Time { return time.Now().Add(13 * time.Hour) }
	if _, err := g.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestGate_VerifyRejectsForeignTokens(t *testing.T) {
	g := newTestGate(t)
	now := time.Now()
	base := jwt.RegisteredClaims{
		Subject:   "admin",
		Issuer:    defaultIssuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	wrongKey, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: base, Role: RoleAdmin}).
		SignedString([]byte("some-other-secret"))
	wrongRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: base, Role: "viewer"}).
		SignedString(testSecret)
	otherIssuer := base
	otherIssuer.Issuer = "elsewhere"
	wrongIssuer, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: otherIssuer, Role: RoleAdmin}).
		SignedString(testSecret)
	noExpiry := base
	noExpiry.ExpiresAt = nil
	forever, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: noExpiry, Role: RoleAdmin}).
		SignedString(testSecret)
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: base, Role: RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, tok := range map[string]string{
		"wrong key":    wrongKey,
		"wrong role":   wrongRole,
		"wrong issuer": wrongIssuer,
		"no expiry":    forever,
		"alg none":     unsigned,
		"garbage":      "not.a.token",
		"empty":        "",
	} {
		if _, err := g.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(h, "$2a$") {
		t.Errorf("expected bcrypt hash, got %s", h)
	}
	if bcrypt.CompareHashAndPassword([]byte(h), []byte("s3cret")) != nil {
		t.Error("hash does not match password")
	}
}
