package strategy

import (
	"fmt"
)

// Strategy names accepted by FromName and the configuration layer.
const (
	TypeRoundRobin           = "round-robin"
	TypeSequentialRoundRobin = "sequential-round-robin"
	TypeRandom               = "random"
	TypeLeastWork            = "least-work"
)

// Types lists every strategy name FromName accepts.
func Types() []string {
	return []string{TypeRoundRobin, TypeSequentialRoundRobin, TypeRandom, TypeLeastWork}
}

// FromName builds a fresh strategy instance for the given name.
func FromName(name string) (Strategy, error) {
	switch name {
	case TypeRoundRobin:
		return NewRoundRobinStrategy(), nil
	case TypeSequentialRoundRobin:
		return NewSequentialRoundRobinStrategy(), nil
	case TypeRandom:
		return NewRandomStrategy(), nil
	case TypeLeastWork:
		return NewLeastWorkStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
