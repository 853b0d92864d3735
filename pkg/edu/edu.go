// Package edu is a typed Go binding for the Sphero Edu scripting surface.
//
// A program connects a Robot to a Runtime (a websocket link to the app that
// drives the hardware, or the in-process simulator) and then calls the same
// functions a Sphero Edu JavaScript program would: Roll, SetMainLed,
// GetOrientation, RegisterEvent and so on. Every call is checked against the
// connected robot's capabilities and the documented argument ranges before it
// is sent.
package edu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spheroedu/bridge/internal/dispatcher"
	"github.com/spheroedu/bridge/pkg/catalog"
	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

// Runtime carries commands to the robot and events back.
type Runtime interface {
	Hello(ctx context.Context) (streaming.HelloPayload, error)
	Call(ctx context.Context, name string, args, reply any) error
	Events() <-chan streaming.EventPayload
	Close() error
}

// Recorder receives a journal entry for every command and event.
type Recorder interface {
	RecordCommand(core.CommandRecord)
	RecordEvent(core.EventRecord)
}

// EventLogger logs event delivery. *slog.Logger satisfies it.
type EventLogger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures Connect.
type Option func(*options)

type options struct {
	catalog     *catalog.Catalog
	recorder    Recorder
	logger      *slog.Logger
	eventLogger EventLogger
	eventBuffer int
	seed        *[2]uint64
}

// WithCatalog replaces the embedded animation and sound catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithRecorder journals every command and event.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithEventLogger sets the logger used for event delivery. It defaults to the
// WithLogger logger.
func WithEventLogger(l EventLogger) Option {
	return func(o *options) { o.eventLogger = l }
}

// WithEventBuffer delivers events to callbacks through a queue of the given
// size, so a slow callback does not hold up other event types. Zero delivers
// synchronously from the event pump.
func WithEventBuffer(size int) Option {
	return func(o *options) { o.eventBuffer = size }
}

// WithRandomSeed makes GetRandomInt, GetRandomFloat and GetRandomColor deterministic.
func WithRandomSeed(seed1, seed2 uint64) Option {
	return func(o *options) { o.seed = &[2]uint64{seed1, seed2} }
}

// Robot is a connected robot.
type Robot struct {
	rt         Runtime
	hello      streaming.HelloPayload
	catalog    *catalog.Catalog
	recorder   Recorder
	logger     *slog.Logger
	dispatcher *dispatcher.Dispatcher
	opts       options
	start      time.Time

	randMu sync.Mutex
	rand   *rand.Rand

	calibrated atomic.Bool
	animations atomic.Int32

	pumpDone  chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Connect performs the runtime handshake and starts the event pump.
func Connect(ctx context.Context, rt Runtime, opts ...Option) (*Robot, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.eventLogger == nil {
		o.eventLogger = o.logger
	}
	if o.catalog == nil {
		c, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
		o.catalog = c
	}

	hello, err := rt.Hello(ctx)
	if err != nil {
		return nil, fmt.Errorf("runtime handshake: %w", err)
	}
	if !hello.Robot.Valid() {
		return nil, fmt.Errorf("runtime reported unknown robot type %q", hello.Robot)
	}

	d, err := dispatcher.New(o.eventLogger)
	if err != nil {
		return nil, fmt.Errorf("creating event dispatcher: %w", err)
	}

	src := rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())
	if o.seed != nil {
		src = rand.NewPCG(o.seed[0], o.seed[1])
	}

	r := &Robot{
		rt:         rt,
		hello:      hello,
		catalog:    o.catalog,
		recorder:   o.recorder,
		logger:     o.logger.With("robot", string(hello.Robot)),
		dispatcher: d,
		opts:       o,
		start:      time.Now(),
		rand:       rand.New(src),
		pumpDone:   make(chan struct{}),
	}
	go r.pump()

	r.logger.Info("Connected to robot", "firmware", hello.Firmware, "runtime", hello.Runtime)
	return r, nil
}

// Hello returns the runtime handshake.
func (r *Robot) Hello() streaming.HelloPayload {
	return r.hello
}

// Catalog returns the animation and sound catalog in use.
func (r *Robot) Catalog() *catalog.Catalog {
	return r.catalog
}

// Close closes the runtime and waits for pending event callbacks.
func (r *Robot) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.rt.Close()
		<-r.pumpDone
		r.dispatcher.Close()
	})
	return r.closeErr
}

// Done is closed when the runtime's event stream ends.
func (r *Robot) Done() <-chan struct{} {
	return r.pumpDone
}

// pump delivers runtime events to callbacks in arrival order.
func (r *Robot) pump() {
	defer close(r.pumpDone)
	for ev := range r.rt.Events() {
		err := r.dispatcher.Dispatch(dispatcher.Event{Type: ev.Event, Payload: ev, Timestamp: time.Now()})
		handled := err == nil
		if err != nil && !errors.Is(err, dispatcher.ErrNoHandler) {
			r.logger.Warn("Event callback failed", "event", ev.Event.String(), "error", err)
		}
		if r.recorder != nil {
			r.recorder.RecordEvent(core.EventRecord{
				Time:    time.Now(),
				Event:   ev.Event,
				Channel: ev.Channel,
				Color:   ev.Color,
				Handled: handled,
			})
		}
	}
}

// call checks capability, sends the command and journals it.
func (r *Robot) call(ctx context.Context, name string, args, reply any) error {
	if err := streaming.CheckCapability(r.hello.Robot, name); err != nil {
		return r.reject(name, args, err)
	}
	start := time.Now()
	err := r.rt.Call(ctx, name, args, reply)
	r.record(name, args, start, time.Since(start), err)
	return err
}

// reject journals a command that failed before reaching the runtime.
func (r *Robot) reject(name string, args any, err error) error {
	r.record(name, args, time.Now(), 0, err)
	return err
}

func (r *Robot) record(name string, args any, at time.Time, d time.Duration, err error) {
	if r.recorder == nil {
		return
	}
	rec := core.CommandRecord{Time: at, Name: name, Duration: d}
	if args != nil {
		if raw, mErr := json.Marshal(args); mErr == nil {
			rec.Args = raw
		}
	}
	if err != nil {
		rec.Error = err.Error()
		rec.Code = core.CodeOf(err)
	}
	r.recorder.RecordCommand(rec)
}

// requireCapability fails with an *core.UnsupportedError when the robot lacks c.
func (r *Robot) requireCapability(op string, c core.Capability) error {
	if !r.hello.Robot.Supports(c) {
		return &core.UnsupportedError{Op: op, Robot: r.hello.Robot}
	}
	return nil
}
