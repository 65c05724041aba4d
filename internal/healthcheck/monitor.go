package healthcheck

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/angeloszaimis/l4-dispatch/internal/registry"
	"github.com/angeloszaimis/l4-dispatch/internal/target"
)

// Probe decides whether a single target is healthy. A non-nil error counts
// as unhealthy for that cycle; it is never propagated past the monitor.
type Probe func(t *target.Target) (bool, error)

// Monitor periodically re-evaluates the health of every target in a
// registry. Cycles run with a fixed delay between the end of one cycle and
// the start of the next, so cycles never overlap. The first cycle fires
// immediately on Start.
type Monitor struct {
	registry *registry.Registry
	probe    Probe
	interval time.Duration
	grace    time.Duration
	logger   *slog.Logger

	mutex    sync.Mutex
	running  bool
	cancel   context.CancelFunc
	done     chan struct{}
	onChange func(name string, healthy bool)
}

// NewMonitor creates a stopped monitor. grace bounds how long Stop waits for
// an in-flight cycle before giving up on it.
func NewMonitor(
	reg *registry.Registry,
	probe Probe,
	interval time.Duration,
	grace time.Duration,
	logger *slog.Logger,
) *Monitor {
	return &Monitor{
		registry: reg,
		probe:    probe,
		interval: interval,
		grace:    grace,
		logger:   logger,
	}
}

// OnHealthChange registers a callback invoked whenever a cycle flips a
// target's health flag. Must be set before Start. The callback runs on the
// monitor goroutine, so it should not block.
func (m *Monitor) OnHealthChange(fn func(name string, healthy bool)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.onChange = fn
}

// Start transitions the monitor to running and schedules health cycles.
// Starting a running monitor is a no-op.
func (m *Monitor) Start() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true

	m.logger.Info("Starting health monitor",
		slog.Duration("interval", m.interval))

	go m.run(ctx, m.done)
}

// Stop cancels future cycles and waits up to the grace period for an
// in-flight cycle to finish. Stopping a stopped monitor is a no-op.
func (m *Monitor) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.running {
		return
	}

	m.logger.Info("Stopping health monitor")
	m.cancel()

	select {
	case <-m.done:
	case <-time.After(m.grace):
		m.logger.Warn("Health cycle still in flight after grace period, abandoning it",
			slog.Duration("grace", m.grace))
	}

	m.running = false
}

// IsRunning reports whether the monitor is currently running.
func (m *Monitor) IsRunning() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.running
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		m.runCycle(ctx)

		timer := time.NewTimer(m.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// runCycle probes every registered target, eligible or not: a drained target
// keeps its health evaluated so it re-enters rotation with current state.
func (m *Monitor) runCycle(ctx context.Context) {
	for _, t := range m.registry.All() {
		if ctx.Err() != nil {
			return
		}

		healthy := m.evaluate(t)

		if changed := t.SetHealthy(healthy); changed {
			if healthy {
				m.logger.Info("Target recovered",
					slog.String("target", t.Name()))
			} else {
				m.logger.Warn("Target failed health check",
					slog.String("target", t.Name()))
			}

			if m.onChange != nil {
				m.onChange(t.Name(), healthy)
			}
		}
	}
}

func (m *Monitor) evaluate(t *target.Target) (healthy bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("Health probe panicked, treating target as unhealthy",
				slog.String("target", t.Name()),
				slog.Any("panic", r))
			healthy = false
		}
	}()

	healthy, err := m.probe(t)
	if err != nil {
		m.logger.Debug("Health probe failed",
			slog.String("target", t.Name()),
			slog.Any("err", err))
		return false
	}

	return healthy
}
