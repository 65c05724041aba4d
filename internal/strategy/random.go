package strategy

import (
	"math/rand/v2"
	"sync"

	"github.com/angeloszaimis/l4-dispatch/internal/target"
)

type randomStrategy struct {
	mutex sync.Mutex
	rng   *rand.Rand
}

// NewRandomStrategy returns a uniformly random strategy seeded from the
// global generator.
func NewRandomStrategy() Strategy {
	return NewSeededRandomStrategy(rand.Uint64())
}

// NewSeededRandomStrategy returns a uniformly random strategy with a fixed
// seed. The same seed against the same sequence of list contents reproduces
// the same selections, which makes randomized behavior testable.
func NewSeededRandomStrategy(seed uint64) Strategy {
	return &randomStrategy{
		rng: rand.New(rand.NewPCG(seed, seed)),
	}
}

func (r *randomStrategy) Select(targets []*target.Target) *target.Target {
	if len(targets) == 0 {
		return nil
	}

	r.mutex.Lock()
	index := r.rng.IntN(len(targets))
	r.mutex.Unlock()

	return targets[index]
}

// Reset is a no-op: there is no cursor to clear and the seed is not rewound.
func (r *randomStrategy) Reset() {}
