// Package healthcheck implements background health monitoring for dispatch
// targets. A Monitor polls every registered target on a fixed delay and is
// the only writer of target health state. Probe implementations decide what
// healthy means; the monitor absorbs their failures.
package healthcheck
