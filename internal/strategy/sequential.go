package strategy

import (
	"github.com/angeloszaimis/l4-dispatch/internal/target"
)

type sequentialRoundRobinStrategy struct {
	current int
}

// NewSequentialRoundRobinStrategy returns a round-robin strategy with a plain
// integer cursor. It is NOT safe for concurrent use: two callers racing on
// Select can observe the same index or skip one, because the read and the
// increment of the cursor are separate steps. The index is reduced modulo the
// list length at read time, so a list that shrank between calls yields a
// wrapped selection rather than a panic. Use NewRoundRobinStrategy when
// dispatch runs from more than one goroutine.
func NewSequentialRoundRobinStrategy() Strategy {
	return &sequentialRoundRobinStrategy{}
}

func (s *sequentialRoundRobinStrategy) Select(targets []*target.Target) *target.Target {
	if len(targets) == 0 {
		return nil
	}

	selected := targets[s.current%len(targets)]
	s.current = (s.current + 1) % len(targets)
	return selected
}

func (s *sequentialRoundRobinStrategy) Reset() {
	s.current = 0
}
