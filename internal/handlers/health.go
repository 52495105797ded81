package handlers

import (
	"net/http"
	"time"
)

// HealthHandler reports service liveness and database connectivity.
// The server stays up without a database, so this never returns non-200.
type HealthHandler struct {
	Checker HealthChecker
	NowFunc func() time.Time
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	now := time.Now()
	if h.NowFunc != nil {
		now = h.NowFunc()
	}

	status := h.Checker.Check(ctx)

	overall := "OK"
	database := "connected"
	message := "All systems operational"
	if !status.Connected {
		overall = "DEGRADED"
		database = "disconnected"
		message = "Running without database"
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{
		"status":    overall,
		"timestamp": now.UTC().Format(time.RFC3339),
		"database":  database,
		"message":   message,
	})
}
