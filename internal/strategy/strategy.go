package strategy

import (
	"github.com/angeloszaimis/l4-dispatch/internal/target"
)

// Strategy picks one target from an ordered list of eligible targets.
// Select returns nil when the list is nil or empty. Reset clears any
// internal cursor; the dispatcher calls it when a strategy is swapped in.
type Strategy interface {
	Select(targets []*target.Target) *target.Target
	Reset()
}
