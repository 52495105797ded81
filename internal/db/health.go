package db

import (
	"context"
	"sync"
	"time"
)

// Pinger is the subset of the pool used for connectivity probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status reports database reachability for the health endpoint.
type Status struct {
	Connected bool
	CheckedAt time.Time
	LastError string
}

// Health tracks database connectivity. It replaces a module-level flag:
// the service is constructed once, handed to whoever needs it, and
// records the outcome of every probe.
type Health struct {
	mu     sync.RWMutex
	pinger Pinger
	status Status
}

// NewHealth constructs a Health service probing the provided pinger.
// A nil pinger reports permanently disconnected.
func NewHealth(pinger Pinger) *Health {
	return &Health{pinger: pinger}
}

// Check probes the database and records the result. Startup failures do
// not stop the process; the service keeps serving in degraded mode and
// this records what the health endpoint should report.
func (h *Health) Check(ctx context.Context) Status {
	status := Status{CheckedAt: time.Now().UTC()}

	if h.pinger == nil {
		status.LastError = "no database pool configured"
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(pingCtx); err != nil {
			status.LastError = err.Error()
		} else {
			status.Connected = true
		}
	}

	h.mu.Lock()
	h.status = status
	h.mu.Unlock()

	return status
}

// Last returns the most recently recorded status without probing.
func (h *Health) Last() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}
