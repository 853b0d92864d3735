// Package sim is an in-process simulated robot runtime. It accepts the same
// named commands and JSON arguments as a real runtime and keeps the robot state
// in memory, which makes it suitable for tests and for classroom demos without
// hardware.
package sim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spheroedu/bridge/internal/channel"
	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

// RuntimeName is reported in the hello payload.
const RuntimeName = "sim"

// CmPerSpeedUnit converts a speed value (0-255) to cm/s.
const CmPerSpeedUnit = 1.0

var errExited = errors.New("program exited")

// Options configures a Simulator.
type Options struct {
	Robot    core.RobotType
	Firmware string
	// TimeScale multiplies every duration. 1 is real time, 0 completes
	// timed commands instantly.
	TimeScale float64
	// EventBuffer is the size of the outgoing event queue.
	EventBuffer int
	// MagneticNorth is the compass bearing of heading 0.
	MagneticNorth float64
	Logger        *slog.Logger
}

// Simulator is a simulated robot.
type Simulator struct {
	opts   Options
	logger *slog.Logger
	events channel.Channel[streaming.EventPayload]

	life     context.Context
	shutdown context.CancelFunc

	mu       sync.Mutex
	closed   bool
	exited   bool
	commands []string
	started  time.Time
	last     time.Time

	// motion
	heading       float64
	speed         int
	yawRate       float64
	stabilization bool
	rawMotor      core.RawMotor
	location      core.Vector2
	distance      float64
	elapsed       float64
	maneuver      uint64
	cancelMove    context.CancelFunc

	// lights
	mainLed      core.Color
	backLed      core.BackLed
	backLedColor core.Color
	frontLed     core.Color
	rvr          core.RVRLeds
	sideLed1     core.Color
	sideLed2     core.Color
	doorLed1     core.Color
	doorLed2     core.Color

	// matrix
	matrix             [core.MatrixSize][core.MatrixSize]core.Color
	rotation           core.MatrixRotation
	character          string
	scrolling          string
	animations         []core.MatrixAnimation
	fpsOverride        int
	transitionOverride *core.MatrixAnimationTransition
	player             *player

	// sensors
	color             core.Color
	luminosity        float64
	colorListening    bool
	compassCalibrated bool
	charging          bool

	// ir
	irMode      string
	irNear      core.IRChannel
	irFar       core.IRChannel
	irListening bool
	irSent      []streaming.IRMessageArgs
	lastIR      int

	// droid
	domePosition  float64
	stance        string
	waddle        bool
	holoProjector int
	logicDisplay  int
	domeLeds      int
	speaking      string
	lastAnimation string
	lastSound     string
}

// New creates a simulator for the given robot model.
func New(opts Options) (*Simulator, error) {
	if !opts.Robot.Valid() {
		return nil, fmt.Errorf("unknown robot type %q", opts.Robot)
	}
	if opts.TimeScale < 0 {
		return nil, fmt.Errorf("time scale must not be negative, got %v", opts.TimeScale)
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 64
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	life, shutdown := context.WithCancel(context.Background())
	now := time.Now()
	return &Simulator{
		opts:          opts,
		logger:        opts.Logger.With("runtime", RuntimeName, "robot", string(opts.Robot)),
		events:        channel.New[streaming.EventPayload](opts.EventBuffer),
		life:          life,
		shutdown:      shutdown,
		started:       now,
		last:          now,
		stabilization: true,
		lastIR:        -1,
		luminosity:    250,
		stance:        streaming.StanceBipod,
	}, nil
}

// Robot returns the simulated model.
func (s *Simulator) Robot() core.RobotType {
	return s.opts.Robot
}

// Hello returns the handshake a connecting client receives.
func (s *Simulator) Hello(ctx context.Context) (streaming.HelloPayload, error) {
	return streaming.HelloPayload{
		Robot:    s.opts.Robot,
		Firmware: s.opts.Firmware,
		Runtime:  RuntimeName,
	}, nil
}

// Call runs a command through the JSON encoding a remote runtime would see.
// When ctx ends first Call returns ctx.Err() and the command keeps running.
func (s *Simulator) Call(ctx context.Context, name string, args, reply any) error {
	var raw json.RawMessage
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("%s: encode args: %w", name, err)
		}
		raw = b
	}

	done := make(chan streaming.ResultPayload, 1)
	go func() { done <- s.Execute(name, raw) }()

	var res streaming.ResultPayload
	select {
	case res = <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := res.Err(name); err != nil {
		return err
	}
	if reply != nil && len(res.Value) > 0 {
		if err := json.Unmarshal(res.Value, reply); err != nil {
			return fmt.Errorf("%s: decode result: %w", name, err)
		}
	}
	return nil
}

// Execute runs one encoded command and returns the encoded result.
func (s *Simulator) Execute(name string, args json.RawMessage) streaming.ResultPayload {
	s.mu.Lock()
	s.commands = append(s.commands, name)
	exited := s.exited || s.closed
	s.mu.Unlock()

	if exited {
		return streaming.NewResult(nil, &core.RuntimeError{Op: name, Message: errExited.Error()})
	}
	h, ok := handlers[name]
	if !ok {
		return streaming.NewResult(nil, &core.RuntimeError{Op: name, Code: core.CodeUnknownCommand, Message: "unknown command"})
	}
	if err := streaming.CheckCapability(s.opts.Robot, name); err != nil {
		return streaming.NewResult(nil, err)
	}

	value, err := h(s, args)
	if err != nil {
		s.logger.Debug("command failed", "command", name, "error", err)
	}
	return streaming.NewResult(value, err)
}

// Events returns the stream of hardware events.
func (s *Simulator) Events() <-chan streaming.EventPayload {
	return s.events.Receive()
}

// Close stops timed commands and the animation player and closes the event stream.
func (s *Simulator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.shutdown()
	s.stopPlayerLocked()
	s.events.Close()
	return nil
}

// Commands returns the names of all commands received so far.
func (s *Simulator) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.commands))
	copy(out, s.commands)
	return out
}

// Trigger raises a hardware event.
func (s *Simulator) Trigger(ev streaming.EventPayload) error {
	if !ev.Event.Valid() {
		return fmt.Errorf("invalid event type %d", int(ev.Event))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch ev.Event {
	case core.EventCharging:
		s.charging = true
	case core.EventNotCharging:
		s.charging = false
	case core.EventIRMessage:
		if ev.Channel != nil {
			s.lastIR = *ev.Channel
		}
	case core.EventColor:
		if ev.Color != nil {
			s.color = *ev.Color
		}
	}
	return s.emitLocked(ev)
}

// ReceiveIR simulates an infrared message arriving on channel. An onIRMessage
// event is raised only while the program listens for IR messages.
func (s *Simulator) ReceiveIR(ch int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastIR = ch
	if !s.irListening {
		return nil
	}
	return s.emitLocked(streaming.EventPayload{Event: core.EventIRMessage, Channel: &ch})
}

// SeeColor simulates the color sensor reading c. An onColor event is raised
// only while the program listens for the color sensor.
func (s *Simulator) SeeColor(c core.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = c
	if !s.colorListening {
		return nil
	}
	return s.emitLocked(streaming.EventPayload{Event: core.EventColor, Color: &c})
}

// SetLuminosity sets the ambient light reading.
func (s *Simulator) SetLuminosity(lux float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.luminosity = lux
}

func (s *Simulator) emitLocked(ev streaming.EventPayload) error {
	if s.closed {
		return errExited
	}
	if !s.events.TrySend(ev) {
		s.logger.Warn("event queue full, dropping event", "event", ev.Event.String())
		return fmt.Errorf("event queue full: %s", ev.Event)
	}
	return nil
}

// wait sleeps for sec simulated seconds. With a zero time scale the simulated
// clock jumps forward instead.
func (s *Simulator) wait(ctx context.Context, sec float64) error {
	if sec <= 0 {
		return nil
	}
	if s.opts.TimeScale == 0 {
		s.mu.Lock()
		s.advanceBy(sec)
		s.mu.Unlock()
		return nil
	}
	timer := time.NewTimer(time.Duration(sec * s.opts.TimeScale * float64(time.Second)))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// background runs fn after the caller's command has already been answered.
func (s *Simulator) background(fn func()) {
	go fn()
}

// Advance moves the simulated clock forward by sec seconds.
func (s *Simulator) Advance(sec float64) {
	if sec <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.advanceBy(sec)
}
