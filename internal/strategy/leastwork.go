package strategy

import (
	"math"

	"github.com/angeloszaimis/l4-dispatch/internal/target"
)

type leastWorkStrategy struct{}

// NewLeastWorkStrategy returns a strategy that picks the target with the
// fewest in-flight work units. Ties go to the earlier target in the list.
func NewLeastWorkStrategy() Strategy {
	return &leastWorkStrategy{}
}

func (l *leastWorkStrategy) Select(targets []*target.Target) *target.Target {
	if len(targets) == 0 {
		return nil
	}

	var best *target.Target
	bestWork := math.MaxInt32

	for _, t := range targets {
		active := t.ActiveWork()
		if active < bestWork {
			bestWork = active
			best = t
		}
	}

	return best
}

func (l *leastWorkStrategy) Reset() {}
