package strategy

import (
	"sync/atomic"

	"github.com/angeloszaimis/l4-dispatch/internal/target"
)

type roundRobinStrategy struct {
	current uint64
}

// NewRoundRobinStrategy returns a round-robin strategy whose cursor advances
// atomically. Concurrent callers never observe a duplicated or lost cursor
// value: over M selections against a stable N-element list, each index is
// returned exactly M/N times.
func NewRoundRobinStrategy() Strategy {
	return &roundRobinStrategy{}
}

func (rb *roundRobinStrategy) Select(targets []*target.Target) *target.Target {
	if len(targets) == 0 {
		return nil
	}

	n := atomic.AddUint64(&rb.current, 1)

	index := (n - 1) % uint64(len(targets))

	return targets[index]
}

func (rb *roundRobinStrategy) Reset() {
	atomic.StoreUint64(&rb.current, 0)
}
