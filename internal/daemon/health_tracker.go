package daemon

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/openshift-assist/mcpbridge/internal/contracts"
	"github.com/openshift-assist/mcpbridge/internal/domain"
	"github.com/openshift-assist/mcpbridge/internal/errors"
)

var _ contracts.MCPHealthMonitor = (*HealthTracker)(nil)

// HealthTracker records the results of periodic session liveness checks.
// It is safe for concurrent use by multiple goroutines.
type HealthTracker struct {
	mu       sync.RWMutex
	statuses map[string]domain.ServerHealth
}

// NewHealthTracker creates a tracker seeded with the configured server names,
// all initially in an unknown state.
func NewHealthTracker(serverNames []string) *HealthTracker {
	statuses := make(map[string]domain.ServerHealth, len(serverNames))
	for _, name := range serverNames {
		statuses[name] = domain.ServerHealth{Name: name, Status: domain.HealthStatusUnknown}
	}
	return &HealthTracker{
		statuses: statuses,
	}
}

// Status returns the health status for a single tracked server.
func (h *HealthTracker) Status(name string) (domain.ServerHealth, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if health, ok := h.statuses[name]; ok {
		return health, nil
	}

	return domain.ServerHealth{}, fmt.Errorf("%w: %s", errors.ErrHealthNotTracked, name)
}

// List returns a copy of all known server health records.
func (h *HealthTracker) List() []domain.ServerHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Collect(maps.Values(h.statuses))
}

// Update records a health check for a tracked server.
// The current time is recorded as LastChecked, and LastSuccessful is updated
// only if status is HealthStatusOK. Latency can be nil if the check failed.
func (h *HealthTracker) Update(name string, status domain.HealthStatus, latency *time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now().UTC()

	health, ok := h.statuses[name]
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrHealthNotTracked, name)
	}

	health.Status = status
	health.Latency = latency
	health.LastChecked = &now
	if status == domain.HealthStatusOK {
		health.LastSuccessful = &now
	}

	h.statuses[name] = health

	return nil
}
