package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/BYMO9/griboul/internal/auth"
	"github.com/BYMO9/griboul/internal/logging"
)

// RequireAuth rejects requests without a verifiable bearer token and
// stores the caller identity on the context.
func RequireAuth(verifier auth.Verifier) func(http.Handler) http.Handler {
	return authenticate(verifier, true)
}

// OptionalAuth resolves the caller identity when a valid bearer token is
// present but lets unauthenticated requests through for public views.
func OptionalAuth(verifier auth.Verifier) func(http.Handler) http.Handler {
	return authenticate(verifier, false)
}

func authenticate(verifier auth.Verifier, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if required {
					unauthorized(w, "No token provided")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if required {
					logging.FromContext(r.Context()).Warn("token verification failed", "error", err)
					unauthorized(w, "Invalid token")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "Unauthorized",
		"message": message,
	})
}
