package monitoring

import (
	"sync"
	"time"
)

// Health reports process-level status for the health endpoint: uptime plus
// the state of optional components (Redis sessions, the advice model).
type Health struct {
	mu         sync.RWMutex
	components map[string]string
	startTime  time.Time
}

// NewHealth creates a health tracker with no components registered yet.
func NewHealth() *Health {
	return &Health{
		components: make(map[string]string),
		startTime:  time.Now(),
	}
}

// SetComponent records the state of one component, e.g. "redis": "ok" or
// "advisor": "disabled".
func (h *Health) SetComponent(name, state string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.components[name] = state
}

// Component returns the recorded state of one component.
func (h *Health) Component(name string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	state, exists := h.components[name]
	return state, exists
}

// Snapshot returns the full health report for serialization.
func (h *Health) Snapshot() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	report := make(map[string]interface{}, len(h.components)+2)
	for k, v := range h.components {
		report[k] = v
	}

	report["status"] = "ok"
	report["uptime_seconds"] = time.Since(h.startTime).Seconds()

	return report
}
