package healthcheck

import (
	"sync"

	"github.com/angeloszaimis/l4-dispatch/internal/target"
)

// SelfReportProbe returns a probe that echoes the target's current health
// flag. Useful when health is driven externally (tests, simulations, an
// out-of-band agent flipping the flag).
func SelfReportProbe() Probe {
	return func(t *target.Target) (bool, error) {
		if t == nil {
			return false, nil
		}
		return t.IsHealthy(), nil
	}
}

// StaticProbe returns a probe with a fixed verdict for every target.
func StaticProbe(healthy bool) Probe {
	return func(*target.Target) (bool, error) {
		return healthy, nil
	}
}

// DampedProbe wraps a probe so a target is only reported unhealthy after
// threshold consecutive failures. A single success resets the count and
// reports healthy immediately. This keeps a flapping target in rotation
// through transient blips while still converging on a sustained outage.
func DampedProbe(probe Probe, threshold int) Probe {
	if threshold < 1 {
		threshold = 1
	}

	var mutex sync.Mutex
	failures := make(map[string]int)

	return func(t *target.Target) (bool, error) {
		ok, err := probe(t)

		mutex.Lock()
		defer mutex.Unlock()

		name := ""
		if t != nil {
			name = t.Name()
		}

		if ok && err == nil {
			delete(failures, name)
			return true, nil
		}

		failures[name]++
		return failures[name] < threshold, nil
	}
}
