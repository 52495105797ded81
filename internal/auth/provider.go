package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates the presented bearer token could not be verified.
var ErrInvalidToken = errors.New("invalid token")

// Identity describes the authenticated caller as asserted by the
// external identity provider.
type Identity struct {
	UID           string
	Email         string
	Provider      string
	EmailVerified bool
}

// Verifier validates a bearer token and resolves the caller's identity.
// Handlers depend on this interface so the mock development verifier and
// a real provider can be swapped without touching them.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// MockVerifier accepts any non-empty token and returns a fixed
// development identity. It stands in for the real identity provider.
type MockVerifier struct {
	Identity Identity
}

// NewMockVerifier returns a verifier resolving to the default development user.
func NewMockVerifier() *MockVerifier {
	return &MockVerifier{
		Identity: Identity{
			UID:           "test-user-123",
			Email:         "test@example.com",
			Provider:      "google.com",
			EmailVerified: true,
		},
	}
}

// Verify implements Verifier.
func (v *MockVerifier) Verify(_ context.Context, token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, ErrInvalidToken
	}
	return v.Identity, nil
}

type identityClaims struct {
	Email         string `json:"email"`
	Provider      string `json:"provider"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HMAC-signed bearer tokens. The subject claim
// carries the provider UID.
type JWTVerifier struct {
	secret []byte
	issuer string
}

// NewJWTVerifier constructs a verifier for tokens signed with the shared secret.
func NewJWTVerifier(secret, issuer string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("auth: jwt secret is required")
	}
	return &JWTVerifier{secret: []byte(secret), issuer: issuer}, nil
}

// Verify implements Verifier.
func (v *JWTVerifier) Verify(_ context.Context, token string) (Identity, error) {
	claims := &identityClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !parsed.Valid || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		UID:           claims.Subject,
		Email:         claims.Email,
		Provider:      claims.Provider,
		EmailVerified: claims.EmailVerified,
	}, nil
}
