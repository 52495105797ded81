package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BYMO9/griboul/internal/auth"
)

type fixedVerifier struct {
	identity auth.Identity
	err      error
}

func (v fixedVerifier) Verify(context.Context, string) (auth.Identity, error) {
	return v.identity, v.err
}

func identityEcho(t *testing.T, want *auth.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if want == nil {
			if ok {
				t.Error("expected no identity on context")
			}
		} else {
			if !ok || identity.UID != want.UID {
				t.Errorf("expected identity %v, got %v (ok=%v)", want, identity, ok)
			}
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	identity := auth.Identity{UID: "builder-456", Email: "maya@example.com"}

	t.Run("missing token", func(t *testing.T) {
		handler := RequireAuth(fixedVerifier{identity: identity})(identityEcho(t, nil))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		handler := RequireAuth(fixedVerifier{err: auth.ErrInvalidToken})(identityEcho(t, nil))
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		handler := RequireAuth(fixedVerifier{identity: identity})(identityEcho(t, &identity))
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		handler := RequireAuth(fixedVerifier{identity: identity})(identityEcho(t, nil))
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestOptionalAuth(t *testing.T) {
	identity := auth.Identity{UID: "builder-456"}

	t.Run("anonymous passes through", func(t *testing.T) {
		handler := OptionalAuth(fixedVerifier{identity: identity})(identityEcho(t, nil))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/videos/feed", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("invalid token passes through anonymously", func(t *testing.T) {
		handler := OptionalAuth(fixedVerifier{err: auth.ErrInvalidToken})(identityEcho(t, nil))
		req := httptest.NewRequest(http.MethodGet, "/api/videos/feed", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("valid token resolves identity", func(t *testing.T) {
		handler := OptionalAuth(fixedVerifier{identity: identity})(identityEcho(t, &identity))
		req := httptest.NewRequest(http.MethodGet, "/api/videos/feed", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestKeyRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute, 2, time.Hour)

	if !limiter.Allow("1.2.3.4") || !limiter.Allow("1.2.3.4") {
		t.Fatal("burst requests should be allowed")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatal("third request within the window should be rejected")
	}

	// Keys are independent.
	if !limiter.Allow("5.6.7.8") {
		t.Fatal("fresh key should be allowed")
	}
}

func TestKeyRateLimiterExpiresIdleEntries(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute, 1, time.Minute).(*keyRateLimiter)

	current := time.Unix(1700000000, 0)
	limiter.now = func() time.Time { return current }

	if !limiter.Allow("1.2.3.4") {
		t.Fatal("first request should be allowed")
	}

	current = current.Add(2 * time.Minute)
	limiter.Allow("5.6.7.8")

	limiter.mu.Lock()
	_, stale := limiter.visitors["1.2.3.4"]
	limiter.mu.Unlock()
	if stale {
		t.Fatal("idle entry should have been expired")
	}
}

func TestLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute, 1, time.Hour)
	handler := Limit(limiter, "search")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/search/descriptive", nil)
	req.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	// A different client IP is not affected.
	other := httptest.NewRequest(http.MethodGet, "/api/search/descriptive", nil)
	other.Header.Set("X-Forwarded-For", "8.8.8.8")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for other client, got %d", rec.Code)
	}
}
