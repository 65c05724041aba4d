// Package strategy defines the target selection interface and implements
// the available algorithms:
//
//   - Round Robin: sequential distribution, safe for concurrent dispatchers
//   - Sequential Round Robin: plain-cursor variant, NOT safe for concurrent use
//   - Random: uniform selection with a seedable generator
//   - Least Work: routes to the target with the fewest in-flight work units
//
// Strategies select from the eligible list they are given; filtering by
// health and availability happens upstream in the registry.
package strategy
