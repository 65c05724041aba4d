package target

import (
	"errors"
	"sync"
)

var (
	// ErrDrained is returned when a target refuses work because an operator
	// took it out of rotation.
	ErrDrained = errors.New("target is administratively down")

	// ErrUnhealthy is returned when a target refuses work because it failed
	// its last health check.
	ErrUnhealthy = errors.New("target failed health check")
)

// Target represents a backend endpoint with administrative availability,
// health status, and in-flight work tracking.
type Target struct {
	name       string
	mutex      sync.Mutex
	available  bool
	healthy    bool
	activeWork int
}

// New creates a Target with the given name. New targets start available and
// healthy, so they enter rotation immediately and stay there until an
// operator drains them or a health check fails.
func New(name string) *Target {
	return &Target{
		name:      name,
		available: true,
		healthy:   true,
	}
}

// Name returns the target's identity within a registry.
func (t *Target) Name() string {
	return t.name
}

// IsAvailable reports the operator-controlled administrative state.
func (t *Target) IsAvailable() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.available
}

// SetAvailable updates the administrative state.
// Returns true if the state changed, false if it was already in that state.
func (t *Target) SetAvailable(available bool) (changed bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.available == available {
		return false
	}

	t.available = available
	return true
}

// IsHealthy reports the monitor-controlled health state.
func (t *Target) IsHealthy() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.healthy
}

// SetHealthy updates the health state.
// Returns true if the state changed, false if it was already in that state.
func (t *Target) SetHealthy(healthy bool) (changed bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.healthy == healthy {
		return false
	}

	t.healthy = healthy
	return true
}

// Eligible reports whether the target may receive work right now. Eligibility
// is always the conjunction of both flags, computed on every call, never
// cached.
func (t *Target) Eligible() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.available && t.healthy
}

// BeginWork increments the in-flight work count.
func (t *Target) BeginWork() {
	t.mutex.Lock()
	t.activeWork++
	t.mutex.Unlock()
}

// EndWork decrements the in-flight work count.
func (t *Target) EndWork() {
	t.mutex.Lock()
	if t.activeWork > 0 {
		t.activeWork--
	}
	t.mutex.Unlock()
}

// ActiveWork returns the current number of in-flight work units.
func (t *Target) ActiveWork() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.activeWork
}

// HandleWork processes one unit of work. It returns nil if the target was
// eligible at handle time. Otherwise it returns the refusal reason, with the
// administrative state taking precedence when both flags are down. A target
// can refuse even after passing the eligibility filter: its state may flip
// between selection and forwarding, and there is no lock across that boundary.
func (t *Target) HandleWork(work string) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.available && t.healthy {
		return nil
	}

	if !t.available {
		return ErrDrained
	}

	return ErrUnhealthy
}
