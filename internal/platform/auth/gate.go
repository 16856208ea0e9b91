// Package auth implements the admin gate: a configured username with a
// bcrypt password hash, exchanged for a short-lived HS256 token.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the only role the gate issues.
const RoleAdmin = "admin"

// DefaultTokenTTL is used when GateConfig.TTL is zero.
const DefaultTokenTTL = 12 * time.Hour

const defaultIssuer = "mediway"

var (
	ErrInvalidCredentials = errors.New("auth: invalid username or password")
	ErrInvalidToken       = errors.New("auth: invalid token")
)

type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type GateConfig struct {
	Username     string
	PasswordHash string
	Secret       []byte
	TTL          time.Duration
	Issuer       string
}

type Gate struct {
	cfg GateConfig
	now func() time.Time
}

func NewGate(cfg GateConfig) (*Gate, error) {
	if cfg.Username == "" {
		return nil, fmt.Errorf("admin username is required")
	}
	if cfg.PasswordHash == "" {
		return nil, fmt.Errorf("admin password hash is required")
	}
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("token secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}
	return &Gate{cfg: cfg, now: time.Now}, nil
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Login checks the credentials and issues a signed token.
func (g *Gate) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(g.cfg.Username)) == 1
	if err := bcrypt.CompareHashAndPassword([]byte(g.cfg.PasswordHash), []byte(password)); err != nil || !userOK {
		return "", ErrInvalidCredentials
	}

	now := g.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   g.cfg.Username,
			Issuer:    g.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.cfg.TTL)),
		},
		Role: RoleAdmin,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return tok, nil
}

// Verify parses tok and checks signature, issuer, expiry and role.
func (g *Gate) Verify(tok string) (*Claims, error) {
	if tok == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return g.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(g.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Role != RoleAdmin {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidToken, claims.Role)
	}
	return claims, nil
}
