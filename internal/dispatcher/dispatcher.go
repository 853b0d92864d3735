// Package dispatcher routes runtime events to at most one handler per event
// type, either inline or through a per-type queue drained by its own
// goroutine.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/spheroedu/bridge/internal/channel"
	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

var (
	// ErrNoHandler is returned by Dispatch when nothing handles the event type.
	ErrNoHandler = errors.New("no handler registered")
	// ErrQueueFull is returned when a non-blocking queue has no room.
	ErrQueueFull = errors.New("queue full")
)

// Event is a hardware event delivered by the runtime.
type Event struct {
	Type      core.EventType
	Payload   streaming.EventPayload
	Timestamp time.Time
}

// HandlerFunc processes an event.
type HandlerFunc func(Event) error

// Logger is satisfied by *slog.Logger and logging.EventLogger.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option tunes a single registration.
type Option func(*route)

// WithQueue runs the handler on its own goroutine fed by a queue of size
// events. Dispatch returns as soon as the event is queued.
func WithQueue(size int) Option {
	return func(r *route) { r.queueSize = size }
}

// WithBlocking makes Dispatch wait for room in a full queue instead of
// dropping the event.
func WithBlocking() Option {
	return func(r *route) { r.blocking = true }
}

// WithTrace logs each delivery and its duration at debug level.
func WithTrace() Option {
	return func(r *route) { r.trace = true }
}

type route struct {
	queueSize int
	blocking  bool
	trace     bool

	handle HandlerFunc
	lane   *lane
}

// lane is the queue behind a queued handler. Senders hold the read lock
// so close never races a send.
type lane struct {
	mu     sync.RWMutex
	closed bool
	events *channel.Buffered[Event]
	done   chan struct{}
}

func (l *lane) push(e Event, block bool) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	switch {
	case l.closed:
		return ErrNoHandler
	case block:
		l.events.Send(e)
		return nil
	case l.events.TrySend(e):
		return nil
	default:
		return ErrQueueFull
	}
}

// close stops intake. The consumer still drains what is queued.
func (l *lane) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.closed = true
		l.events.Close()
	}
}

// Dispatcher routes events to registered handlers.
type Dispatcher struct {
	log     Logger
	metrics *metrics

	mu     sync.RWMutex
	routes map[core.EventType]*route
	closed bool
}

// New creates a Dispatcher. Metrics go to the global OTel meter, which is a
// no-op until a provider is installed.
func New(log Logger) (*Dispatcher, error) {
	return newWithMeter(log, otel.Meter(instrumentationName))
}

func newWithMeter(log Logger, meter metric.Meter) (*Dispatcher, error) {
	d := &Dispatcher{log: log, routes: make(map[core.EventType]*route)}
	m, err := newMetrics(meter, d.queueDepths)
	if err != nil {
		return nil, err
	}
	d.metrics = m
	return d, nil
}

func (d *Dispatcher) queueDepths(report func(core.EventType, int)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for typ, r := range d.routes {
		if r.lane != nil {
			report(typ, r.lane.events.Len())
		}
	}
}

// Register sets the handler for typ. An existing handler is replaced and
// its queue, if any, finishes the events it already accepted.
func (d *Dispatcher) Register(typ core.EventType, h HandlerFunc, opts ...Option) {
	r := &route{}
	for _, opt := range opts {
		opt(r)
	}

	r.handle = h
	if r.trace {
		r.handle = d.traced(typ, r.handle)
	}
	if r.queueSize > 0 {
		r.lane = &lane{events: channel.NewBuffered[Event](r.queueSize), done: make(chan struct{})}
		go d.consume(typ, r.lane, r.handle, !r.trace)
	}

	d.mu.Lock()
	old := d.routes[typ]
	d.routes[typ] = r
	d.mu.Unlock()

	if old != nil && old.lane != nil {
		old.lane.close()
	}
}

// Unregister removes the handler for typ and reports whether there was one.
func (d *Dispatcher) Unregister(typ core.EventType) bool {
	d.mu.Lock()
	old, ok := d.routes[typ]
	delete(d.routes, typ)
	d.mu.Unlock()

	if ok && old.lane != nil {
		old.lane.close()
	}
	return ok
}

// HasHandler reports whether typ has a handler.
func (d *Dispatcher) HasHandler(typ core.EventType) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.routes[typ]
	return ok
}

// Dispatch delivers e to its handler. Inline handlers run on the caller's
// goroutine and their error is returned; queued handlers report failures
// through the logger.
func (d *Dispatcher) Dispatch(e Event) error {
	d.mu.RLock()
	r, ok := d.routes[e.Type]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, e.Type)
	}

	if r.lane == nil {
		err := r.handle(e)
		d.count(e.Type, err)
		return err
	}
	err := r.lane.push(e, r.blocking)
	if errors.Is(err, ErrQueueFull) {
		d.metrics.dropped.Add(context.Background(), 1, eventAttr(e.Type))
	}
	if err != nil {
		return fmt.Errorf("%w: %s", err, e.Type)
	}
	return nil
}

// Close removes every handler and waits for the queues to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	routes := d.routes
	d.routes = make(map[core.EventType]*route)
	d.mu.Unlock()

	if err := d.metrics.unregister(); err != nil {
		d.log.Error("Failed to unregister dispatcher metrics", "error", err)
	}

	for _, r := range routes {
		if r.lane != nil {
			r.lane.close()
			<-r.lane.done
		}
	}
}

// consume runs a queued handler. Traced handlers already log their errors.
func (d *Dispatcher) consume(typ core.EventType, l *lane, h HandlerFunc, logErrors bool) {
	defer close(l.done)
	for e := range l.events.Receive() {
		err := h(e)
		d.count(typ, err)
		if err != nil && logErrors {
			d.log.Error("Event handler failed", "event", typ.String(), "error", err)
		}
	}
}

func (d *Dispatcher) count(typ core.EventType, err error) {
	ctx := context.Background()
	d.metrics.processed.Add(ctx, 1, eventAttr(typ))
	if err != nil {
		d.metrics.failed.Add(ctx, 1, eventAttr(typ))
	}
}

func (d *Dispatcher) traced(typ core.EventType, h HandlerFunc) HandlerFunc {
	return func(e Event) error {
		start := time.Now()
		err := h(e)
		if err != nil {
			d.log.Error("Event delivery failed", "event", typ.String(), "took", time.Since(start), "error", err)
			return err
		}
		d.log.Debug("Event delivered", "event", typ.String(), "took", time.Since(start), "lag", start.Sub(e.Timestamp))
		return nil
	}
}
