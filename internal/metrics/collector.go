package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventDispatchSucceeded EventType = "dispatch_succeeded"
	EventDispatchFailed    EventType = "dispatch_failed"
	EventTargetSelected    EventType = "target_selected"
	EventHealthChanged     EventType = "health_changed"
)

// Failure reasons recorded with EventDispatchFailed.
const (
	ReasonNoTargets     = "no_targets"
	ReasonNoneEligible  = "none_eligible"
	ReasonTargetRefused = "target_refused"
)

type Event struct {
	Type      EventType
	Timestamp time.Time
	Target    string
	Reason    string
	Healthy   bool
}

// Collector consumes events from a buffered channel and folds them into a
// Metrics store on its own goroutine.
type Collector struct {
	eventCh chan Event
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan Event, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

// Publish enqueues an event without blocking. Events are dropped when the
// buffer is full; metrics are advisory, dispatch latency is not.
func (c *Collector) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case c.eventCh <- event:
	default:
	}
}

// Start launches the consuming goroutine. It runs until ctx is cancelled,
// then drains whatever is left in the buffer.
func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event Event) {
	switch event.Type {
	case EventDispatchSucceeded:
		c.metrics.RecordSuccess()

	case EventDispatchFailed:
		c.metrics.RecordFailure(event.Reason)

	case EventTargetSelected:
		c.metrics.RecordSelection(event.Target)

	case EventHealthChanged:
		c.metrics.UpdateHealthStatus(event.Target, event.Healthy)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}
