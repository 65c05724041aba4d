package registry

import (
	"sync"

	"github.com/angeloszaimis/l4-dispatch/internal/target"
)

// Registry is an insertion-ordered collection of targets. All reads return
// fresh slices; the internal slice is never exposed.
type Registry struct {
	mutex   sync.RWMutex
	targets []*target.Target
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Add inserts a target. Nil targets and names already present are ignored,
// so Add is idempotent.
func (r *Registry) Add(t *target.Target) {
	if t == nil {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, existing := range r.targets {
		if existing.Name() == t.Name() {
			return
		}
	}

	r.targets = append(r.targets, t)
}

// Remove deletes the target with the same name, if present. Removing a nil
// or unknown target is a no-op.
func (r *Registry) Remove(t *target.Target) {
	if t == nil {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, existing := range r.targets {
		if existing.Name() == t.Name() {
			r.targets = append(r.targets[:i], r.targets[i+1:]...)
			return
		}
	}
}

// All returns a snapshot of every registered target in insertion order,
// regardless of state.
func (r *Registry) All() []*target.Target {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	snapshot := make([]*target.Target, len(r.targets))
	copy(snapshot, r.targets)
	return snapshot
}

// Eligible returns a snapshot of the targets that are both administratively
// available and healthy, in insertion order.
func (r *Registry) Eligible() []*target.Target {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	eligible := make([]*target.Target, 0, len(r.targets))
	for _, t := range r.targets {
		if t.Eligible() {
			eligible = append(eligible, t)
		}
	}

	return eligible
}

// HasEligible reports whether at least one target is eligible. It applies the
// same predicate as Eligible without building the slice.
func (r *Registry) HasEligible() bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, t := range r.targets {
		if t.Eligible() {
			return true
		}
	}

	return false
}

// Len returns the number of registered targets, eligible or not.
func (r *Registry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.targets)
}

// Lookup returns the target with the given name, or nil if none is
// registered.
func (r *Registry) Lookup(name string) *target.Target {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, t := range r.targets {
		if t.Name() == name {
			return t
		}
	}

	return nil
}
