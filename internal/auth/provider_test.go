package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-signing-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func standardClaims(subject string, expires time.Time) identityClaims {
	return identityClaims{
		Email:         "maya@example.com",
		Provider:      "google.com",
		EmailVerified: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "griboul",
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
}

func TestMockVerifier(t *testing.T) {
	verifier := NewMockVerifier()

	identity, err := verifier.Verify(context.Background(), "any-token")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.UID != "test-user-123" || identity.Email != "test@example.com" {
		t.Fatalf("unexpected identity %+v", identity)
	}

	if _, err := verifier.Verify(context.Background(), "   "); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for blank token, got %v", err)
	}
}

func TestNewJWTVerifierRequiresSecret(t *testing.T) {
	if _, err := NewJWTVerifier("", "griboul"); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewJWTVerifier(testSecret, "griboul"); err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}
}

func TestJWTVerifierValidToken(t *testing.T) {
	verifier, err := NewJWTVerifier(testSecret, "griboul")
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}

	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret),
		standardClaims("builder-456", time.Now().Add(time.Hour)))

	identity, err := verifier.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.UID != "builder-456" || identity.Email != "maya@example.com" {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if identity.Provider != "google.com" || !identity.EmailVerified {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestJWTVerifierRejections(t *testing.T) {
	verifier, err := NewJWTVerifier(testSecret, "griboul")
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}

	expired := standardClaims("builder-456", time.Now().Add(-time.Hour))

	noExpiry := standardClaims("builder-456", time.Now().Add(time.Hour))
	noExpiry.ExpiresAt = nil

	wrongIssuer := standardClaims("builder-456", time.Now().Add(time.Hour))
	wrongIssuer.Issuer = "someone-else"

	emptySubject := standardClaims("", time.Now().Add(time.Hour))

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, []byte("other-secret"),
			standardClaims("builder-456", time.Now().Add(time.Hour)))},
		{"expired", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired)},
		{"missing expiry", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry)},
		{"wrong issuer", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), wrongIssuer)},
		{"empty subject", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), emptySubject)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := verifier.Verify(context.Background(), tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
