// Package dispatcher orchestrates the dispatch core: it filters the target
// registry down to eligible targets, delegates the choice to the active
// selection strategy, and forwards work to the chosen target. The health
// monitor runs on its own schedule and never blocks a dispatch call.
package dispatcher
