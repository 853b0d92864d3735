package edu

import (
	"fmt"

	"github.com/spheroedu/bridge/internal/dispatcher"
	"github.com/spheroedu/bridge/pkg/core"
)

// Callback is the set of event callback shapes.
type Callback interface {
	func() | func(channel int) | func(core.Color)
}

// Event is an event type paired with the callback shape it delivers.
// Only the values below are valid.
type Event[F Callback] struct {
	typ core.EventType
}

// Type returns the event type ev subscribes to.
func (ev Event[F]) Type() core.EventType { return ev.typ }

// Events that may be passed to RegisterEvent.
var (
	OnCollision   = Event[func()]{core.EventCollision}
	OnFreefall    = Event[func()]{core.EventFreefall}
	OnLanding     = Event[func()]{core.EventLanding}
	OnGyroMax     = Event[func()]{core.EventGyroMax}
	OnCharging    = Event[func()]{core.EventCharging}
	OnNotCharging = Event[func()]{core.EventNotCharging}
	OnIRMessage   = Event[func(channel int)]{core.EventIRMessage}
	OnColor       = Event[func(core.Color)]{core.EventColor}
)

// RegisterEvent calls cb each time ev fires. Registering the same event again
// replaces the previous callback. Callbacks for one event type run in arrival
// order and never concurrently with each other.
func RegisterEvent[F Callback](r *Robot, ev Event[F], cb F) error {
	if c, ok := ev.typ.Capability(); ok {
		if err := r.requireCapability(ev.typ.String(), c); err != nil {
			return err
		}
	}
	h, err := adapt(ev.typ, any(cb))
	if err != nil {
		return err
	}
	opts := []dispatcher.Option{dispatcher.WithTrace()}
	if r.opts.eventBuffer > 0 {
		opts = append(opts, dispatcher.WithQueue(r.opts.eventBuffer))
	}
	r.dispatcher.Register(ev.typ, h, opts...)
	r.logger.Debug("Registered event callback", "event", ev.typ.String())
	return nil
}

// UnregisterEvent removes the callback for typ. It reports whether one was registered.
func (r *Robot) UnregisterEvent(typ core.EventType) bool {
	return r.dispatcher.Unregister(typ)
}

// shapeOf names the callback shape each event type delivers.
func shapeOf(typ core.EventType) string {
	switch typ {
	case core.EventIRMessage:
		return "func(int)"
	case core.EventColor:
		return "func(core.Color)"
	}
	return "func()"
}

func adapt(typ core.EventType, cb any) (dispatcher.HandlerFunc, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("register %s: unknown event", typ)
	}
	if got := callbackShape(cb); got != shapeOf(typ) {
		return nil, fmt.Errorf("register %s: callback must be %s, got %T", typ, shapeOf(typ), cb)
	}
	switch fn := cb.(type) {
	case func():
		if fn == nil {
			break
		}
		return func(dispatcher.Event) error {
			fn()
			return nil
		}, nil
	case func(int):
		if fn == nil {
			break
		}
		return func(e dispatcher.Event) error {
			if e.Payload.Channel == nil {
				return fmt.Errorf("%s event without channel", typ)
			}
			fn(*e.Payload.Channel)
			return nil
		}, nil
	case func(core.Color):
		if fn == nil {
			break
		}
		return func(e dispatcher.Event) error {
			if e.Payload.Color == nil {
				return fmt.Errorf("%s event without color", typ)
			}
			fn(*e.Payload.Color)
			return nil
		}, nil
	}
	return nil, fmt.Errorf("register %s: unsupported callback %T", typ, cb)
}

func callbackShape(cb any) string {
	switch cb.(type) {
	case func():
		return "func()"
	case func(int):
		return "func(int)"
	case func(core.Color):
		return "func(core.Color)"
	}
	return ""
}
