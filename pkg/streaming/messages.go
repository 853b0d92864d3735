package streaming

import (
	"encoding/json"
	"fmt"

	"github.com/spheroedu/bridge/pkg/core"
)

// Message type constants matching the runtime protocol.
const (
	TypeHello   = "hello"
	TypeCommand = "command"
	TypeResult  = "result"
	TypeEvent   = "event"
)

// Envelope wraps all messages exchanged with the runtime.
// ID correlates a command with its result and is zero for other types.
type Envelope struct {
	Type    string          `json:"type"`
	ID      uint64          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// HelloPayload is sent by the runtime once a client connects.
type HelloPayload struct {
	Robot    core.RobotType `json:"robot"`
	Firmware string         `json:"firmware,omitempty"`
	Runtime  string         `json:"runtime,omitempty"`
}

// CommandPayload names an API function and carries its encoded arguments.
type CommandPayload struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// ResultPayload answers a command. Error is empty on success.
type ResultPayload struct {
	Value json.RawMessage `json:"value,omitempty"`
	Error string          `json:"error,omitempty"`
	Code  string          `json:"code,omitempty"`
}

// EventPayload is a hardware event raised by the robot.
// Channel is set for onIRMessage and Color for onColor.
type EventPayload struct {
	Event   core.EventType `json:"event"`
	Channel *int           `json:"channel,omitempty"`
	Color   *core.Color    `json:"color,omitempty"`
}

// Err converts a failed result into a *core.RuntimeError.
func (r ResultPayload) Err(op string) error {
	if r.Error == "" && r.Code == "" {
		return nil
	}
	return &core.RuntimeError{Op: op, Code: r.Code, Message: r.Error}
}

// Marshal builds a JSON-encoded Envelope from a message type and payload.
func Marshal(msgType string, id uint64, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
		}
		raw = b
	}
	data, err := json.Marshal(Envelope{Type: msgType, ID: id, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// NewResult builds a result payload from a handler's return values.
func NewResult(value any, err error) ResultPayload {
	if err != nil {
		return ResultPayload{Error: err.Error(), Code: core.CodeOf(err)}
	}
	if value == nil {
		return ResultPayload{}
	}
	raw, mErr := json.Marshal(value)
	if mErr != nil {
		return ResultPayload{Error: mErr.Error(), Code: core.CodeInternal}
	}
	return ResultPayload{Value: raw}
}
