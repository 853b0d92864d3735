// pkg/core/events.go
package core

import (
	"fmt"
)

// EventType selects which hardware event a callback subscribes to.
// Ordinals follow the declaration order of the scripting API.
type EventType int

const (
	EventCollision EventType = iota
	EventFreefall
	EventLanding
	EventGyroMax
	EventCharging
	EventNotCharging
	EventIRMessage
	EventColor
)

var eventNames = [...]string{
	EventCollision:   "onCollision",
	EventFreefall:    "onFreefall",
	EventLanding:     "onLanding",
	EventGyroMax:     "onGyroMax",
	EventCharging:    "onCharging",
	EventNotCharging: "onNotCharging",
	EventIRMessage:   "onIRMessage",
	EventColor:       "onColor",
}

// EventTypes lists every event type in ordinal order.
var EventTypes = []EventType{
	EventCollision,
	EventFreefall,
	EventLanding,
	EventGyroMax,
	EventCharging,
	EventNotCharging,
	EventIRMessage,
	EventColor,
}

// Valid reports whether e is a declared event type.
func (e EventType) Valid() bool {
	return e >= EventCollision && e <= EventColor
}

func (e EventType) String() string {
	if e.Valid() {
		return eventNames[e]
	}
	return fmt.Sprintf("EventType(%d)", int(e))
}

// ParseEventType parses an event name such as "onCollision".
func ParseEventType(s string) (EventType, error) {
	for i, name := range eventNames {
		if name == s {
			return EventType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

// MarshalText encodes the event by name.
func (e EventType) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("invalid event type %d", int(e))
	}
	return []byte(eventNames[e]), nil
}

// UnmarshalText decodes an event name.
func (e *EventType) UnmarshalText(b []byte) error {
	v, err := ParseEventType(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Capability returns the capability a robot needs to raise e, if any.
func (e EventType) Capability() (Capability, bool) {
	switch e {
	case EventIRMessage:
		return CapIR, true
	case EventColor:
		return CapColorSensor, true
	}
	return 0, false
}
