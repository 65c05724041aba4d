package dispatcher

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/angeloszaimis/l4-dispatch/internal/healthcheck"
	"github.com/angeloszaimis/l4-dispatch/internal/metrics"
	"github.com/angeloszaimis/l4-dispatch/internal/registry"
	"github.com/angeloszaimis/l4-dispatch/internal/strategy"
	"github.com/angeloszaimis/l4-dispatch/internal/target"
)

var (
	// ErrNoTargets means the registry holds no targets at all.
	ErrNoTargets = errors.New("no targets configured")

	// ErrNoneEligible means targets exist but none is both available and
	// healthy.
	ErrNoneEligible = errors.New("no eligible targets")
)

// Dispatcher owns one registry, one swappable selection strategy and one
// health monitor. Dispatch calls are safe from any number of goroutines.
type Dispatcher struct {
	registry  *registry.Registry
	monitor   *healthcheck.Monitor
	collector *metrics.Collector
	logger    *slog.Logger

	mutex    sync.Mutex
	strategy strategy.Strategy
}

// New creates a dispatcher. collector may be nil when metrics are not wanted.
func New(
	reg *registry.Registry,
	strat strategy.Strategy,
	monitor *healthcheck.Monitor,
	collector *metrics.Collector,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		registry:  reg,
		monitor:   monitor,
		collector: collector,
		logger:    logger,
		strategy:  strat,
	}
}

// Dispatch selects an eligible target and forwards one unit of work to it.
// It returns ErrNoTargets for an empty registry, ErrNoneEligible when no
// target passes the eligibility filter, and a wrapped refusal error when the
// chosen target declines at forward time. Dispatch never blocks on the
// monitor and never retries.
func (d *Dispatcher) Dispatch(work string) error {
	workID := uuid.NewString()

	if !d.registry.HasEligible() {
		if d.registry.Len() == 0 {
			d.logger.Warn("No targets configured",
				slog.String("work_id", workID))
			d.emitFailure(metrics.ReasonNoTargets)
			return ErrNoTargets
		}

		d.logger.Warn("All targets are down",
			slog.String("work_id", workID))
		d.emitFailure(metrics.ReasonNoneEligible)
		return ErrNoneEligible
	}

	selected := d.Strategy().Select(d.registry.Eligible())
	if selected == nil {
		// Eligibility drained between the check above and the selection.
		d.logger.Warn("Eligible targets vanished before selection",
			slog.String("work_id", workID))
		d.emitFailure(metrics.ReasonNoneEligible)
		return ErrNoneEligible
	}

	d.emit(metrics.Event{Type: metrics.EventTargetSelected, Target: selected.Name()})

	selected.BeginWork()
	defer selected.EndWork()

	if err := selected.HandleWork(work); err != nil {
		d.logger.Warn("Target refused work",
			slog.String("work_id", workID),
			slog.String("target", selected.Name()),
			slog.Any("err", err))
		d.emitFailure(metrics.ReasonTargetRefused)
		return fmt.Errorf("target %s refused work: %w", selected.Name(), err)
	}

	d.logger.Info("Work dispatched",
		slog.String("work_id", workID),
		slog.String("target", selected.Name()))
	d.emit(metrics.Event{Type: metrics.EventDispatchSucceeded, Target: selected.Name()})

	return nil
}

// SetStrategy swaps the active selection strategy and resets its cursor
// before first use. A nil strategy is ignored.
func (d *Dispatcher) SetStrategy(strat strategy.Strategy) {
	if strat == nil {
		return
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.strategy = strat
	d.strategy.Reset()
}

// Strategy returns the currently active selection strategy.
func (d *Dispatcher) Strategy() strategy.Strategy {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.strategy
}

// AddTarget registers a target with the dispatcher's registry.
func (d *Dispatcher) AddTarget(t *target.Target) {
	d.registry.Add(t)
}

// RemoveTarget removes a target from the dispatcher's registry.
func (d *Dispatcher) RemoveTarget(t *target.Target) {
	d.registry.Remove(t)
}

// Targets returns a snapshot of every registered target.
func (d *Dispatcher) Targets() []*target.Target {
	return d.registry.All()
}

// StartHealthChecking starts the background health monitor.
func (d *Dispatcher) StartHealthChecking() {
	d.monitor.Start()
}

// StopHealthChecking stops the background health monitor.
func (d *Dispatcher) StopHealthChecking() {
	d.monitor.Stop()
}

// IsHealthCheckingEnabled reports whether the monitor is running.
func (d *Dispatcher) IsHealthCheckingEnabled() bool {
	return d.monitor.IsRunning()
}

// Shutdown stops all background work. Safe to call more than once.
func (d *Dispatcher) Shutdown() {
	d.StopHealthChecking()
}

func (d *Dispatcher) emit(event metrics.Event) {
	if d.collector == nil {
		return
	}
	d.collector.Publish(event)
}

func (d *Dispatcher) emitFailure(reason string) {
	d.emit(metrics.Event{Type: metrics.EventDispatchFailed, Reason: reason})
}
